package hello

import (
	"context"
	"log"
	"time"

	"github.com/partwire/partwire/playground/app/appconfig"
	"github.com/partwire/partwire/playground/app/greet"
	"github.com/partwire/partwire/runner"
)

// NewHelloRunner builds a Runnable greeting the world on a one second
// schedule, as many times as the configuration asks for.
//
// @export named="hello.runner"
func NewHelloRunner(cfg *appconfig.Config, greeter *greet.Service) runner.Runnable {
	return runner.RunnableFunc(func(ctx context.Context) error {
		for i := 0; i < cfg.Repeat; i++ {
			select {
			case <-ctx.Done():
				log.Println("context cancelled, exiting early")
				return ctx.Err()
			case <-time.After(time.Second):
				log.Println(greeter.Greet("world"))
			}
		}
		log.Println("done greeting, exiting now.")
		return nil
	})
}
