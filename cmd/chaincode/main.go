/*
SPDX-License-Identifier: Apache-2.0
*/

// Command chaincode runs the Vickrey auction house chaincode.
//
// Without a server address the process is launched and connected by the
// peer. With one it runs as an external chaincode service that the peer
// dials, which is how CHAINCODE_SERVER_ADDRESS and CHAINCODE_ID are used.
//
// # Configuration File
//
//	houseId: vickrey-auction-house
//	contractName: VickreyAuctionHouse
//	server:
//	  address: 0.0.0.0:9999
//	  ccid: ""              # package id reported by the peer
//	  tls:
//	    certFile: ""
//	    keyFile: ""
//	    clientCAFile: ""
//	metrics:
//	  address: :9443        # serves /metrics and /healthz
//	log:
//	  level: info
//	  format: text          # text or json
//
// # Usage
//
//	chaincode --config=chaincode.yaml
//	CHAINCODE_SERVER_ADDRESS=0.0.0.0:9999 CHAINCODE_ID=vickrey:abc chaincode
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/config"
	auction "github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/smart-contract"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}

	log := newLogger(cfg.Log)

	chaincode, err := contractapi.NewChaincode(auction.NewSmartContract(auction.Options{
		Name:    cfg.ContractName,
		HouseID: cfg.HouseID,
		Logger:  log,
	}))
	if err != nil {
		log.Fatalf("Error creating auction chaincode: %v", err)
	}

	if cfg.Metrics.Address != "" {
		go serveMetrics(log, cfg.Metrics.Address)
	}

	if cfg.Server.Address == "" {
		log.Info("starting chaincode under the peer")
		if err := chaincode.Start(); err != nil {
			log.Fatalf("Error starting auction chaincode: %v", err)
		}
		return
	}

	tlsProps, err := tlsProperties(cfg.Server.TLS)
	if err != nil {
		log.Fatalf("Error loading TLS material: %v", err)
	}
	server := &shim.ChaincodeServer{
		CCID:     cfg.Server.CCID,
		Address:  cfg.Server.Address,
		CC:       chaincode,
		TLSProps: tlsProps,
	}
	log.WithFields(logrus.Fields{
		"address": cfg.Server.Address,
		"ccid":    cfg.Server.CCID,
		"tls":     !tlsProps.Disabled,
	}).Info("starting chaincode service")
	if err := server.Start(); err != nil {
		log.Fatalf("Error starting auction chaincode service: %v", err)
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func tlsProperties(cfg config.TLSConfig) (shim.TLSProperties, error) {
	if !cfg.Enabled() {
		return shim.TLSProperties{Disabled: true}, nil
	}
	key, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("reading key: %w", err)
	}
	cert, err := os.ReadFile(cfg.CertFile)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("reading certificate: %w", err)
	}
	var clientCA []byte
	if cfg.ClientCAFile != "" {
		clientCA, err = os.ReadFile(cfg.ClientCAFile)
		if err != nil {
			return shim.TLSProperties{}, fmt.Errorf("reading client CA: %w", err)
		}
	}
	return shim.TLSProperties{
		Disabled:      false,
		Key:           key,
		Cert:          cert,
		ClientCACerts: clientCA,
	}, nil
}

func serveMetrics(log logrus.FieldLogger, addr string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.WithField("address", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Error("metrics server stopped")
	}
}
