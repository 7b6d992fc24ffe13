package config

import (
	"net"
	"testing"
)

func TestHostIPsIncludesLoopback(t *testing.T) {
	ips := hostIPs()
	var has4, has6 bool
	for _, ip := range ips {
		if ip.Equal(net.IPv4(127, 0, 0, 1)) {
			has4 = true
		}
		if ip.Equal(net.IPv6loopback) {
			has6 = true
		}
	}
	if !has4 || !has6 {
		t.Errorf("hostIPs() = %v, want it to include both loopback addresses", ips)
	}
}

func TestLoadTLSConfigGeneratesSelfSigned(t *testing.T) {
	cfg := Config{}
	tlsCfg, err := LoadTLSConfig(cfg)
	if err != nil {
		t.Fatalf("LoadTLSConfig: %v", err)
	}
	if len(tlsCfg.Certificates) != 1 {
		t.Fatalf("Certificates = %d, want 1", len(tlsCfg.Certificates))
	}
	if len(tlsCfg.NextProtos) != 1 || tlsCfg.NextProtos[0] != "http/1.1" {
		t.Errorf("NextProtos = %v, want [http/1.1]", tlsCfg.NextProtos)
	}
}
