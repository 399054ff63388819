// Package app wires the packtrack HTTP service together: OpenTelemetry,
// the result cache, the packing and health services, the chi router with its
// middleware chain, and the HTTP server.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	logger, err := infrastructure.InitializeLogger(cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, or until the server fails, then shuts
// the server down within Server.ShutdownTimeout and flushes telemetry.
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
