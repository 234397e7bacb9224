package main

import (
	"context"
	"log"

	"github.com/itay19101973/E-commerce-system/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("api exited: %v", err)
	}
}
