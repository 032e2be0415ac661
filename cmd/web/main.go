package main

import "outbound_backend/internal/app"

func main() {
	app.Run()
}
