// Command shellder classifies the logs of Docker Compose services.
package main

import "github.com/aegis-aio/shellder/internal/cli"

func main() {
	cli.Execute()
}
