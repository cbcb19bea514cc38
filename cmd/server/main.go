package main

import "intakebridge/internal/app/server"

func main() {
	server.Run()
}
