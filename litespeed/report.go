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

// Report is one parsed snapshot of a LiteSpeed real-time report file.
// Reports are built once by ParseReport and never mutated afterwards.
type Report struct {
	Version string
	Uptime  int64

	BPSIn     int64
	BPSOut    int64
	SSLBPSIn  int64
	SSLBPSOut int64

	MaxConn    int64
	MaxSSLConn int64
	PlainConn  int64
	AvailConn  int64
	IdleConn   int64
	SSLConn    int64
	AvailSSL   int64

	ReqRates []RequestRate
	ExtApps  []ExtApp

	// InvalidLines counts non-blank lines that matched no grammar rule.
	InvalidLines int

	Facts Facts
}

// Facts records which scalar fact lines appeared in the source, so a
// zero-valued field can be told apart from one that was never reported.
type Facts struct {
	Version     bool
	Uptime      bool
	Bandwidth   bool
	Connections bool
}

// RequestRate holds the per-vhost request and cache statistics of one
// REQ_RATE line. The empty name is the server-wide totals row.
type RequestRate struct {
	Name                   string
	ReqProcessing          int64
	ReqPerSec              float64
	TotReqs                int64
	PubCacheHitsPerSec     float64
	TotalPubCacheHits      int64
	PrivateCacheHitsPerSec float64
	TotalPrivateCacheHits  int64
	StaticHitsPerSec       float64
	TotalStaticHits        int64
}

// ExtApp holds the statistics of one EXTAPP line. App, Mid and Name
// together identify the external application pool.
type ExtApp struct {
	App          string
	Mid          string
	Name         string
	CMaxConn     int64
	EMaxConn     int64
	PoolSize     int64
	InUseConn    int64
	IdleConn     int64
	WaitQueDepth int64
	ReqPerSec    float64
	TotReqs      int64
}
