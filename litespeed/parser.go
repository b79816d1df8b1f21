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

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// lineRE recognizes every fact line of the real-time report format. The
// whole line must match one alternative; the alternatives are mutually
// exclusive, so which named group participated tells us the line kind.
var lineRE = regexp.MustCompile(`^(?:` +
	`VERSION: .+/(?P<version>.+)` +
	`|UPTIME: (?:(?P<uptime_days>\d+) days? )?(?P<uptime_hours>\d+):(?P<uptime_minutes>\d+):(?P<uptime_seconds>\d+)` +
	`|BPS_IN: (?P<bps_in>\d+), BPS_OUT: (?P<bps_out>\d+), SSL_BPS_IN: (?P<ssl_bps_in>\d+), SSL_BPS_OUT: (?P<ssl_bps_out>\d+)` +
	`|MAXCONN: (?P<maxconn>\d+), MAXSSL_CONN: (?P<maxssl_conn>\d+), PLAINCONN: (?P<plainconn>\d+), AVAILCONN: (?P<availconn>\d+), IDLECONN: (?P<idleconn>\d+), SSLCONN: (?P<sslconn>\d+), AVAILSSL: (?P<availssl>\d+)` +
	`|REQ_RATE \[(?P<req_rate>[^\]]*)\]: REQ_PROCESSING: (?P<req_processing>\d+), REQ_PER_SEC: (?P<req_per_sec>\d+(?:\.\d+)?), TOT_REQS: (?P<tot_reqs>\d+), PUB_CACHE_HITS_PER_SEC: (?P<pub_cache_hits_per_sec>\d+(?:\.\d+)?), TOTAL_PUB_CACHE_HITS: (?P<total_pub_cache_hits>\d+), PRIVATE_CACHE_HITS_PER_SEC: (?P<private_cache_hits_per_sec>\d+(?:\.\d+)?), TOTAL_PRIVATE_CACHE_HITS: (?P<total_private_cache_hits>\d+), STATIC_HITS_PER_SEC: (?P<static_hits_per_sec>\d+(?:\.\d+)?), TOTAL_STATIC_HITS: (?P<total_static_hits>\d+)` +
	`|EXTAPP \[(?P<extapp>[^\]]*)\] \[(?P<extapp_mid>[^\]]*)\] \[(?P<extapp_name>[^\]]*)\]: CMAXCONN: (?P<cmaxconn>\d+), EMAXCONN: (?P<emaxconn>\d+), POOL_SIZE: (?P<pool_size>\d+), INUSE_CONN: (?P<inuse_conn>\d+), IDLE_CONN: (?P<idle_conn>\d+), WAITQUE_DEPTH: (?P<waitque_depth>\d+), REQ_PER_SEC: (?P<extapp_req_per_sec>\d+(?:\.\d+)?), TOT_REQS: (?P<extapp_tot_reqs>\d+)` +
	`|(?P<blocked_ip>BLOCKED_IP:)` +
	`|(?P<eof>EOF)` +
	`)$`)

var lineGroup = func() map[string]int {
	groups := make(map[string]int)
	for i, name := range lineRE.SubexpNames() {
		if name != "" {
			groups[name] = i
		}
	}
	return groups
}()

// lineMatch wraps a submatch index vector so empty captures can be told
// apart from groups that did not participate, e.g. REQ_RATE [] vs no
// REQ_RATE at all.
type lineMatch struct {
	line string
	idx  []int
}

func matchLine(line string) *lineMatch {
	idx := lineRE.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil
	}
	return &lineMatch{line: line, idx: idx}
}

func (m *lineMatch) matched(group string) bool {
	return m.idx[2*lineGroup[group]] >= 0
}

func (m *lineMatch) text(group string) string {
	i := 2 * lineGroup[group]
	if m.idx[i] < 0 {
		return ""
	}
	return m.line[m.idx[i]:m.idx[i+1]]
}

func (m *lineMatch) integer(group string) int64 {
	// The grammar only captures digit runs, so a failed parse leaves zero,
	// which is also the value for an absent optional group.
	v, _ := strconv.ParseInt(m.text(group), 10, 64)
	return v
}

func (m *lineMatch) float(group string) float64 {
	v, _ := strconv.ParseFloat(m.text(group), 64)
	return v
}

// ParseReport consumes one report source line by line and accumulates a
// Report. Content never fails the parse: blank lines are skipped and
// unrecognized lines are counted in InvalidLines. Only a reader error is
// returned. Repeated scalar fact lines overwrite and repeated list fact
// lines append; that mirrors observed server output, it is not a merge
// policy.
func ParseReport(r io.Reader) (Report, error) {
	var rep Report
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := matchLine(line)
		if m == nil {
			rep.InvalidLines++
			continue
		}
		switch {
		case m.matched("version"):
			rep.Version = m.text("version")
			rep.Facts.Version = true
		case m.matched("uptime_hours"):
			rep.Uptime = m.integer("uptime_seconds") +
				m.integer("uptime_minutes")*60 +
				m.integer("uptime_hours")*3600 +
				m.integer("uptime_days")*86400
			rep.Facts.Uptime = true
		case m.matched("bps_in"):
			rep.BPSIn = m.integer("bps_in")
			rep.BPSOut = m.integer("bps_out")
			rep.SSLBPSIn = m.integer("ssl_bps_in")
			rep.SSLBPSOut = m.integer("ssl_bps_out")
			rep.Facts.Bandwidth = true
		case m.matched("maxconn"):
			rep.MaxConn = m.integer("maxconn")
			rep.MaxSSLConn = m.integer("maxssl_conn")
			rep.PlainConn = m.integer("plainconn")
			rep.AvailConn = m.integer("availconn")
			rep.IdleConn = m.integer("idleconn")
			rep.SSLConn = m.integer("sslconn")
			rep.AvailSSL = m.integer("availssl")
			rep.Facts.Connections = true
		case m.matched("req_rate"):
			rep.ReqRates = append(rep.ReqRates, RequestRate{
				Name:                   m.text("req_rate"),
				ReqProcessing:          m.integer("req_processing"),
				ReqPerSec:              m.float("req_per_sec"),
				TotReqs:                m.integer("tot_reqs"),
				PubCacheHitsPerSec:     m.float("pub_cache_hits_per_sec"),
				TotalPubCacheHits:      m.integer("total_pub_cache_hits"),
				PrivateCacheHitsPerSec: m.float("private_cache_hits_per_sec"),
				TotalPrivateCacheHits:  m.integer("total_private_cache_hits"),
				StaticHitsPerSec:       m.float("static_hits_per_sec"),
				TotalStaticHits:        m.integer("total_static_hits"),
			})
		case m.matched("extapp"):
			rep.ExtApps = append(rep.ExtApps, ExtApp{
				App:          m.text("extapp"),
				Mid:          m.text("extapp_mid"),
				Name:         m.text("extapp_name"),
				CMaxConn:     m.integer("cmaxconn"),
				EMaxConn:     m.integer("emaxconn"),
				PoolSize:     m.integer("pool_size"),
				InUseConn:    m.integer("inuse_conn"),
				IdleConn:     m.integer("idle_conn"),
				WaitQueDepth: m.integer("waitque_depth"),
				ReqPerSec:    m.float("extapp_req_per_sec"),
				TotReqs:      m.integer("extapp_tot_reqs"),
			})
		case m.matched("blocked_ip"), m.matched("eof"):
			// Recognized markers that carry no report state.
		}
	}
	if err := scanner.Err(); err != nil {
		return Report{}, err
	}
	return rep, nil
}
