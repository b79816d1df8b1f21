// MIT License
//
// Copyright (c) 2020 Ohio Supercomputer Center
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package litespeed

import "strconv"

// MetricKind is the exposition type of a metric family.
type MetricKind string

const (
	Gauge   MetricKind = "gauge"
	Counter MetricKind = "counter"
	Info    MetricKind = "info"
)

// Label is one key/value pair. Labels keep their insertion order, which is
// part of the output contract, so they live in a slice rather than a map.
type Label struct {
	Name  string
	Value string
}

// Metric is one exposable measurement. Float selects decimal rendering of
// the value; integer-valued metrics render without a decimal point.
type Metric struct {
	Kind   MetricKind
	Name   string
	Labels []Label
	Value  float64
	Float  bool
	Unit   string
	Help   string
}

func gauge(name string, labels []Label, value int64) Metric {
	return Metric{Kind: Gauge, Name: name, Labels: labels, Value: float64(value)}
}

func gaugef(name string, labels []Label, value float64) Metric {
	return Metric{Kind: Gauge, Name: name, Labels: labels, Value: value, Float: true}
}

func counter(name string, labels []Label, value int64) Metric {
	return Metric{Kind: Counter, Name: name, Labels: labels, Value: float64(value)}
}

// Generate projects reports into a flat metric sequence, one block per
// report in input order. The report label is the 1-based input position,
// not a stable file identity. Unseen scalar facts project as zero; the
// Facts field on Report is where callers go to tell the difference.
func Generate(reports []Report) []Metric {
	var metrics []Metric
	for i, rep := range reports {
		report := strconv.Itoa(i + 1)
		metrics = append(metrics, Metric{
			Kind:   Info,
			Name:   "info",
			Labels: []Label{{"report", report}, {"version", rep.Version}},
			Value:  1,
		})
		l := []Label{{"report", report}}
		metrics = append(metrics,
			Metric{Kind: Gauge, Name: "uptime_seconds", Labels: l, Value: float64(rep.Uptime), Unit: "seconds"},
			gauge("bps_in", l, rep.BPSIn),
			gauge("bps_out", l, rep.BPSOut),
			gauge("ssl_bps_in", l, rep.SSLBPSIn),
			gauge("ssl_bps_out", l, rep.SSLBPSOut),
			gauge("maxconn", l, rep.MaxConn),
			gauge("maxssl_conn", l, rep.MaxSSLConn),
			gauge("plainconn", l, rep.PlainConn),
			gauge("availconn", l, rep.AvailConn),
			gauge("idleconn", l, rep.IdleConn),
			gauge("sslconn", l, rep.SSLConn),
			gauge("availssl", l, rep.AvailSSL),
		)
		for _, rate := range rep.ReqRates {
			if rate.Name == "" {
				// The unnamed row is the server-wide sum; exporting it next
				// to the per-vhost rows would double count.
				continue
			}
			l := []Label{{"report", report}, {"req_rate", rate.Name}}
			metrics = append(metrics,
				gauge("req_rate_req_processing", l, rate.ReqProcessing),
				gaugef("req_rate_req_per_sec", l, rate.ReqPerSec),
				counter("req_rate_tot_reqs", l, rate.TotReqs),
				gaugef("req_rate_pub_cache_hits_per_sec", l, rate.PubCacheHitsPerSec),
				counter("req_rate_total_pub_cache_hits", l, rate.TotalPubCacheHits),
				gaugef("req_rate_private_cache_hits_per_sec", l, rate.PrivateCacheHitsPerSec),
				counter("req_rate_total_private_cache_hits", l, rate.TotalPrivateCacheHits),
				gaugef("req_rate_static_hits_per_sec", l, rate.StaticHitsPerSec),
				counter("req_rate_total_static_hits", l, rate.TotalStaticHits),
			)
		}
		for _, app := range rep.ExtApps {
			l := []Label{{"report", report}, {"extapp", app.App}, {"extapp_mid", app.Mid}, {"extapp_name", app.Name}}
			metrics = append(metrics,
				gauge("extapp_cmaxconn", l, app.CMaxConn),
				gauge("extapp_emaxconn", l, app.EMaxConn),
				gauge("extapp_pool_size", l, app.PoolSize),
				gauge("extapp_inuse_conn", l, app.InUseConn),
				gauge("extapp_idle_conn", l, app.IdleConn),
				gauge("extapp_waitque_depth", l, app.WaitQueDepth),
				gaugef("extapp_req_per_sec", l, app.ReqPerSec),
				counter("extapp_tot_reqs", l, app.TotReqs),
			)
		}
	}
	return metrics
}
