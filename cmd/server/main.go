package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netlens/internal/config"
	"netlens/internal/discovery"
	"netlens/internal/domain"
	"netlens/internal/handler"
	"netlens/internal/inventory"
	"netlens/internal/parser"
	"netlens/internal/probe"
	"netlens/internal/repository/sqlite"
	"netlens/internal/session"
	"netlens/internal/tool"
)

func main() {
	// Command line flags override the config file
	configPath := flag.String("config", "", "config file path (default: $NETLENS_CONFIG, ./netlens.yaml)")
	addr := flag.String("listen", "", "HTTP listen address")
	testbedPath := flag.String("testbed", "", "testbed inventory path")
	dbPath := flag.String("db", "", "command journal database path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting netlens server...")

	cfg, from, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if from != "" {
		log.Printf("Config loaded from %s", from)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *testbedPath != "" {
		cfg.Testbed = *testbedPath
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Load the device inventory
	registry, err := inventory.LoadTestbed(cfg.Testbed)
	if err != nil {
		log.Fatalf("Failed to load testbed %s: %v", cfg.Testbed, err)
	}
	log.Printf("Testbed loaded: %d devices from %s", registry.Len(), cfg.Testbed)

	// Open the command journal
	journal, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer journal.Close()
	log.Printf("Command journal opened: %s", cfg.Database.Path)

	// Session manager over SSH
	sessions := session.NewManager(session.NewSSHDialer(), session.Config{
		ConnectTimeout: cfg.Session.ConnectTimeout.Duration(),
		CommandTimeout: cfg.Session.CommandTimeout.Duration(),
	})
	sessions.SetRecorder(journal)
	defer func() {
		if err := sessions.CloseAll(); err != nil {
			log.Printf("Session shutdown error: %v", err)
		}
	}()

	// Discovery pipeline
	parsers := parser.Default()
	collector := discovery.NewCollector(sessions, parsers, cfg.Session.CommandTimeout.Duration())
	policy := discovery.MergePolicy{Preferred: domain.Protocol(cfg.Discovery.Preferred)}
	discoverySvc := discovery.NewService(collector, discovery.NewReconciler(policy), cfg.Discovery.MaxConcurrent)

	prober := probe.NewProber(cfg.Probe.Timeout.Duration())

	// Tool registry and HTTP surface
	tools := tool.DefaultRegistry(&tool.Deps{
		Inventory:      registry,
		Sessions:       sessions,
		Parsers:        parsers,
		Discovery:      discoverySvc,
		Prober:         prober,
		Log:            journal,
		CommandTimeout: cfg.Session.CommandTimeout.Duration(),
	})
	toolHandler := handler.NewToolHandler(tools)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", toolHandler.ListTools)
	mux.HandleFunc("POST /api/tools/{name}", toolHandler.ExecuteTool)
	mux.HandleFunc("GET /api/devices", toolHandler.ListDevices)

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
