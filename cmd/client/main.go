package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"model-serving-service/internal/client"
	"model-serving-service/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	c := client.NewClient(cfg.Client.PredictURL, cfg.Client.Timeout)
	res, err := c.Predict(context.Background(), client.SamplePayload())
	if err != nil {
		log.Fatalf("predict: %v", err)
	}

	fmt.Println("Status Code:", res.StatusCode)
	fmt.Println("Response:", string(res.Body))
}
