package litespeed

import (
	"strings"
	"testing"
)

const expectedExposition = `# TYPE litespeed_info info
litespeed_info{report="1",version="6.1.2"} 1
# TYPE litespeed_uptime_seconds gauge
# UNIT litespeed_uptime_seconds seconds
litespeed_uptime_seconds{report="1"} 323247
# TYPE litespeed_bps_in gauge
litespeed_bps_in{report="1"} 293
# TYPE litespeed_bps_out gauge
litespeed_bps_out{report="1"} 573
# TYPE litespeed_ssl_bps_in gauge
litespeed_ssl_bps_in{report="1"} 0
# TYPE litespeed_ssl_bps_out gauge
litespeed_ssl_bps_out{report="1"} 0
# TYPE litespeed_maxconn gauge
litespeed_maxconn{report="1"} 10000
# TYPE litespeed_maxssl_conn gauge
litespeed_maxssl_conn{report="1"} 5000
# TYPE litespeed_plainconn gauge
litespeed_plainconn{report="1"} 1119
# TYPE litespeed_availconn gauge
litespeed_availconn{report="1"} 8881
# TYPE litespeed_idleconn gauge
litespeed_idleconn{report="1"} 0
# TYPE litespeed_sslconn gauge
litespeed_sslconn{report="1"} 297
# TYPE litespeed_availssl gauge
litespeed_availssl{report="1"} 4703
# TYPE litespeed_req_rate_req_processing gauge
litespeed_req_rate_req_processing{report="1",req_rate="APVH_farmrpg.com:0"} 128
# TYPE litespeed_req_rate_req_per_sec gauge
litespeed_req_rate_req_per_sec{report="1",req_rate="APVH_farmrpg.com:0"} 536.2
# TYPE litespeed_req_rate_tot_reqs counter
litespeed_req_rate_tot_reqs{report="1",req_rate="APVH_farmrpg.com:0"} 180399105
# TYPE litespeed_req_rate_pub_cache_hits_per_sec gauge
litespeed_req_rate_pub_cache_hits_per_sec{report="1",req_rate="APVH_farmrpg.com:0"} 0.0
# TYPE litespeed_req_rate_total_pub_cache_hits counter
litespeed_req_rate_total_pub_cache_hits{report="1",req_rate="APVH_farmrpg.com:0"} 4
# TYPE litespeed_req_rate_private_cache_hits_per_sec gauge
litespeed_req_rate_private_cache_hits_per_sec{report="1",req_rate="APVH_farmrpg.com:0"} 0.0
# TYPE litespeed_req_rate_total_private_cache_hits counter
litespeed_req_rate_total_private_cache_hits{report="1",req_rate="APVH_farmrpg.com:0"} 0
# TYPE litespeed_req_rate_static_hits_per_sec gauge
litespeed_req_rate_static_hits_per_sec{report="1",req_rate="APVH_farmrpg.com:0"} 29.4
# TYPE litespeed_req_rate_total_static_hits counter
litespeed_req_rate_total_static_hits{report="1",req_rate="APVH_farmrpg.com:0"} 5957710
# TYPE litespeed_extapp_cmaxconn gauge
litespeed_extapp_cmaxconn{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 35
litespeed_extapp_cmaxconn{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 35
# TYPE litespeed_extapp_emaxconn gauge
litespeed_extapp_emaxconn{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 200
litespeed_extapp_emaxconn{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 35
# TYPE litespeed_extapp_pool_size gauge
litespeed_extapp_pool_size{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 0
litespeed_extapp_pool_size{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 24
# TYPE litespeed_extapp_inuse_conn gauge
litespeed_extapp_inuse_conn{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 0
litespeed_extapp_inuse_conn{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 24
# TYPE litespeed_extapp_idle_conn gauge
litespeed_extapp_idle_conn{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 0
litespeed_extapp_idle_conn{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 0
# TYPE litespeed_extapp_waitque_depth gauge
litespeed_extapp_waitque_depth{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 0
litespeed_extapp_waitque_depth{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 104
# TYPE litespeed_extapp_req_per_sec gauge
litespeed_extapp_req_per_sec{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 0.0
litespeed_extapp_req_per_sec{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 253.2
# TYPE litespeed_extapp_tot_reqs counter
litespeed_extapp_tot_reqs{report="1",extapp="CGI",extapp_mid="",extapp_name="lscgid"} 36
litespeed_extapp_tot_reqs{report="1",extapp="LSAPI",extapp_mid="APVH_farmrpg.com:0",extapp_name="APVH_farmrpg.com:0_lsphp"} 174477919
# EOF
`

func TestRenderMetricsRoundTrip(t *testing.T) {
	r := parseFixture(t)
	out, err := RenderMetrics(Generate([]Report{r}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if out != expectedExposition {
		expLines := strings.Split(expectedExposition, "\n")
		gotLines := strings.Split(out, "\n")
		for i := range expLines {
			if i >= len(gotLines) {
				t.Errorf("Missing line %d: expected %q", i, expLines[i])
				break
			}
			if gotLines[i] != expLines[i] {
				t.Errorf("Line %d mismatch:\nexpected %q\ngot      %q", i, expLines[i], gotLines[i])
			}
		}
		if len(gotLines) > len(expLines) {
			t.Errorf("Unexpected trailing lines: %q", gotLines[len(expLines):])
		}
	}
}

func TestRenderMetricsTerminator(t *testing.T) {
	out, err := RenderMetrics(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if out != "# EOF\n" {
		t.Errorf("Expected bare terminator, got %q", out)
	}
}

func TestRenderMetricsHelpAndBareName(t *testing.T) {
	metrics := []Metric{
		{Kind: Gauge, Name: "load", Value: 1.5, Float: true, Help: "Current load"},
	}
	out, err := RenderMetrics(metrics)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	expected := "# TYPE litespeed_load gauge\n# HELP litespeed_load Current load\nlitespeed_load 1.5\n# EOF\n"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestRenderMetricsMixedKinds(t *testing.T) {
	metrics := []Metric{
		{Kind: Gauge, Name: "reqs", Value: 1},
		{Kind: Counter, Name: "reqs", Value: 2},
	}
	if _, err := RenderMetrics(metrics); err == nil {
		t.Error("Expected error for mixed kinds within one family")
	}
}
