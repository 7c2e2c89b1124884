// Command kv-server is a thin launcher around package server. Argument
// parsing and logging setup are explicitly out of scope for the core
// (spec.md §1); this wrapper exists only so the module is runnable.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/sunnywhy/kv/server"
)

func main() {
	addr := flag.String("addr", ":4000", "listen address")
	certFile := flag.String("cert", "", "PEM server certificate chain")
	keyFile := flag.String("key", "", "PEM server private key")
	clientCAFile := flag.String("client-ca", "", "PEM client-CA bundle; enables mTLS when set")
	flag.Parse()

	log := logrus.StandardLogger()

	if *certFile == "" || *keyFile == "" {
		log.Fatal("-cert and -key are required")
	}

	certPEM, err := os.ReadFile(*certFile)
	if err != nil {
		log.WithError(err).Fatal("reading cert file")
	}
	keyPEM, err := os.ReadFile(*keyFile)
	if err != nil {
		log.WithError(err).Fatal("reading key file")
	}

	var clientCA []byte
	if *clientCAFile != "" {
		clientCA, err = os.ReadFile(*clientCAFile)
		if err != nil {
			log.WithError(err).Fatal("reading client-ca file")
		}
	}

	srv, err := server.New(*addr, certPEM, keyPEM, clientCA, server.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("creating server")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithField("addr", srv.Addr()).Info("kv-server listening")
	if err := srv.Serve(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
