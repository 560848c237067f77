package main

import (
	"log"

	"github.com/tech-arch1tect/accountd/app"
)

func main() {
	application, err := app.NewApp().
		WithAutoConfig().
		WithAuth().
		WithTraceSessions().
		WithRequestLogging().
		Build()
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	application.Run()
}
