package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/pkg/models"
)

// Variables to hold flag values
var (
	expServer     string
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.IActionClient
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	registry := prometheus.NewRegistry()
	collector := &IActionCollector{Client: p.api}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("IAction Exporter listening on %s", addr)

	// Blocking call to listen
	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR ---

// IActionCollector scrapes the IAction server on every Prometheus pull and
// republishes its metrics and capture state as gauges.
type IActionCollector struct {
	Client *client.IActionClient
	Mutex  sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"iaction_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"iaction_scrape_duration_seconds", "Time taken to scrape the API.", nil, nil,
	)
	analysisFPSDesc = prometheus.NewDesc(
		"iaction_analysis_fps", "Analysis rate derived from the last analysis duration.", nil, nil,
	)
	totalFPSDesc = prometheus.NewDesc(
		"iaction_analysis_total_fps", "End-to-end analysis rate including idle time.", nil, nil,
	)
	lastDurationDesc = prometheus.NewDesc(
		"iaction_analysis_last_duration_seconds", "Duration of the last analysis pass.", nil, nil,
	)
	capturingDesc = prometheus.NewDesc(
		"iaction_camera_capturing", "Capture state per camera.", []string{"camera_id"}, nil,
	)
	activeCamerasDesc = prometheus.NewDesc(
		"iaction_cameras_active", "Number of cameras currently capturing.", nil, nil,
	)
)

func (c *IActionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- analysisFPSDesc
	ch <- totalFPSDesc
	ch <- lastDurationDesc
	ch <- capturingDesc
	ch <- activeCamerasDesc
}

func (c *IActionCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0
	ctx := context.Background()

	// 1. Metrics
	if m, err := c.Client.GetMetrics(ctx); err == nil {
		ch <- prometheus.MustNewConstMetric(analysisFPSDesc, prometheus.GaugeValue, m.DerivedFPS())
		ch <- prometheus.MustNewConstMetric(totalFPSDesc, prometheus.GaugeValue, m.AnalysisTotalFPS)
		ch <- prometheus.MustNewConstMetric(lastDurationDesc, prometheus.GaugeValue, m.LastAnalysisDuration)
	} else {
		success = 0.0
		log.Printf("Error scraping metrics: %v", err)
	}

	// 2. Capture status
	if st, err := c.Client.GetCaptureStatus(ctx); err == nil {
		ch <- prometheus.MustNewConstMetric(activeCamerasDesc, prometheus.GaugeValue, float64(st.ActiveCameras))
		if len(st.Cameras) > 0 {
			for id, cam := range st.Cameras {
				v := 0.0
				if cam.IsCapturing {
					v = 1.0
				}
				ch <- prometheus.MustNewConstMetric(capturingDesc, prometheus.GaugeValue, v, id)
			}
		} else {
			v := 0.0
			if st.MainCapturing() {
				v = 1.0
			}
			ch <- prometheus.MustNewConstMetric(capturingDesc, prometheus.GaugeValue, v, models.MainCameraID)
		}
	} else {
		success = 0.0
		log.Printf("Error scraping capture status: %v", err)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that re-exposes IAction metrics in
Prometheus format. Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Resolve the backend URL (flag wins over saved config)
		base := expServer
		if base == "" {
			base = serverURL()
		}
		if base == "" {
			log.Fatal("Error: no server configured. Pass --backend or run 'iaction-cli connect' first.")
		}
		base = strings.TrimRight(base, "/")

		// 2. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "iaction-exporter",
			DisplayName: "IAction Prometheus Exporter",
			Description: "Exposes IAction camera-monitoring metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--backend", base,
				"--port", expPort,
			},
		}

		prg := &program{
			api: client.New(client.ClientConfig{BaseURL: base}),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// 3. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 4. Run the Service (Blocking)
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expServer, "backend", "", "IAction server base URL (default: the saved one)")
	exporterCmd.Flags().StringVar(&expPort, "port", "9101", "Port to listen on")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
