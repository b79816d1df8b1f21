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

package main

import (
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/lsmetrics/litespeed_exporter/litespeed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/promlog"
	"github.com/prometheus/common/promlog/flag"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v2"
)

const (
	namespace = "litespeed"

	// Content type of the payload endpoint.
	openMetricsType = "application/openmetrics-text; version=1.0.0; charset=utf-8"
)

var (
	listenAddr       = kingpin.Flag("listen", "Address on which to expose metrics.").Default(":9936").String()
	reportDir        = kingpin.Flag("path.report-dir", "Directory containing LiteSpeed real-time report files, overrides the config file.").Default("").String()
	reportFreshness  = kingpin.Flag("collector.report.freshness", "Maximum age of a report file before it is considered stale.").Default("60s").Duration()
	configPath       = "/etc/litespeed_exporter/litespeed_exporter.yml"
	defaultReportDir = "/tmp/lshttpd"

	scrapeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "exporter",
		Name:      "scrape_failures_total",
		Help:      "Number of errors while producing the report metrics payload.",
	})
	scrapeDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "exporter",
		Name:      "last_scrape_duration_seconds",
		Help:      "Duration of the last report scrape.",
	})
)

type exporterConfig struct {
	ReportDir string `yaml:"report_dir"`
}

func getReportDir(logger log.Logger) string {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		level.Info(logger).Log("msg", "Config file not found, using default report directory", "path", configPath)
		return defaultReportDir
	}
	data, err := ioutil.ReadFile(configPath)
	if err != nil {
		level.Error(logger).Log("msg", "Error reading config file", "path", configPath, "err", err)
		return defaultReportDir
	}
	var config exporterConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		level.Error(logger).Log("msg", "Error parsing config file", "path", configPath, "err", err)
		return defaultReportDir
	}
	if config.ReportDir != "" {
		return config.ReportDir
	}
	return defaultReportDir
}

// metricsHandler runs one pipeline invocation per request: discover fresh
// report files, parse, project and render. Failures become a 500 with the
// error text as the body.
func metricsHandler(dir string, freshness time.Duration, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reports, err := litespeed.FindReports(dir, freshness, logger)
		var payload string
		if err == nil {
			payload, err = litespeed.RenderMetrics(litespeed.Generate(reports))
		}
		scrapeDuration.Set(time.Since(start).Seconds())
		if err != nil {
			scrapeFailures.Inc()
			level.Error(logger).Log("msg", "Error producing metrics payload", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", openMetricsType)
		_, _ = w.Write([]byte(payload))
	}
}

func main() {
	promlogConfig := &promlog.Config{}
	flag.AddFlags(kingpin.CommandLine, promlogConfig)
	kingpin.Version(version.Print("litespeed_exporter"))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()
	logger := promlog.New(promlogConfig)

	level.Info(logger).Log("msg", "Starting litespeed_exporter", "version", version.Info())
	level.Info(logger).Log("msg", "Build context", "build_context", version.BuildContext())

	dir := *reportDir
	if dir == "" {
		dir = getReportDir(logger)
	}
	level.Info(logger).Log("msg", "Watching report directory", "dir", dir)

	prometheus.MustRegister(scrapeFailures)
	prometheus.MustRegister(scrapeDuration)
	prometheus.MustRegister(version.NewCollector("litespeed_exporter"))

	http.HandleFunc("/metrics", metricsHandler(dir, *reportFreshness, logger))
	http.Handle("/telemetry", promhttp.Handler())
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>
             <head><title>LiteSpeed Exporter</title></head>
             <body>
             <h1>LiteSpeed Exporter</h1>
             <p><a href='/metrics'>Metrics</a></p>
             <p><a href='/telemetry'>Exporter Telemetry</a></p>
             </body>
             </html>`))
	})
	level.Info(logger).Log("msg", "Starting server", "listen", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, nil); err != nil {
		level.Error(logger).Log("msg", "Error starting server", "err", err)
		os.Exit(1)
	}
}
