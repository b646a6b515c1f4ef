// Package server wraps http.Server with graceful shutdown, production
// timeouts and optional TLS from certificate files.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Start blocks until its context is canceled. Run adds the shutdown step and
// treats cancellation as a clean exit.
package server
