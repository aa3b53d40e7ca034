package shutdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// orderRecorder collects component names in shutdown order.
type orderRecorder struct {
	mu    sync.Mutex
	names []string
}

func (o *orderRecorder) add(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.names = append(o.names, name)
}

func (o *orderRecorder) order() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.names...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// **Feature: serve-shutdown, Property 1: Reverse Registration Order**
// *For any* set of registered components, a signal SHALL shut each down
// exactly once, last registered first, exit with code 0 when none stalls and
// report a failing component through Err.
func TestPropertyReverseRegistrationOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("components stop in LIFO order", prop.ForAll(
		func(n int, failing int) bool {
			sigCh := make(chan os.Signal, 1)
			c := NewCoordinator(
				WithTimeout(time.Second),
				WithSignalChannel(sigCh),
				WithLogger(quietLogger()),
			)

			rec := &orderRecorder{}
			names := make([]string, n)
			for i := 0; i < n; i++ {
				name := string(rune('a' + i))
				names[i] = name
				fail := i == failing
				c.Register(Func(name, func(ctx context.Context) error {
					rec.add(name)
					if fail {
						return errors.New("close failed")
					}
					return nil
				}))
			}

			sigCh <- os.Interrupt
			c.WaitForSignal()
			c.Wait()

			got := rec.order()
			if len(got) != n {
				return false
			}
			for i := range got {
				if got[i] != names[n-1-i] {
					return false
				}
			}
			if failing >= 0 && failing < n {
				if c.Err() == nil {
					return false
				}
			} else if c.Err() != nil {
				return false
			}
			return c.ExitCode() == 0
		},
		gen.IntRange(1, 6),
		gen.IntRange(-1, 5),
	))

	properties.TestingRun(t)
}

func TestShutdownTimeoutForcesExitCode(t *testing.T) {
	c := NewCoordinator(WithTimeout(50*time.Millisecond), WithLogger(quietLogger()))
	c.Register(Func("stuck", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	}))

	start := time.Now()
	c.Shutdown()
	c.Wait()

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("shutdown took %v", elapsed)
	}
	if c.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", c.ExitCode())
	}
	if c.Err() == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestHTTPServerComponentWaitsForInflightRequest(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	srv.Start()
	defer srv.Close()

	result := make(chan int, 1)
	go func() {
		resp, err := http.Get(srv.URL)
		if err != nil {
			result <- 0
			return
		}
		resp.Body.Close()
		result <- resp.StatusCode
	}()
	<-started

	comp := HTTPServer("api", srv.Config)
	if comp.Name() != "api" {
		t.Fatalf("unexpected name %q", comp.Name())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := comp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if status := <-result; status != http.StatusOK {
		t.Fatalf("in-flight request got status %d", status)
	}
}

type closeCounter struct{ closed int }

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestCloserComponent(t *testing.T) {
	cc := &closeCounter{}
	if err := Closer("docker", cc).Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if cc.closed != 1 {
		t.Fatalf("closed %d times", cc.closed)
	}
}

func TestWaitForSignalReturnsAfterDirectShutdown(t *testing.T) {
	c := NewCoordinator(WithSignalChannel(make(chan os.Signal)), WithLogger(quietLogger()))

	returned := make(chan struct{})
	go func() {
		c.WaitForSignal()
		close(returned)
	}()
	c.Shutdown()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("WaitForSignal did not return")
	}
}
