package main

import (
	"log"

	"github.com/Ramsey-B/azalea/pkg/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
