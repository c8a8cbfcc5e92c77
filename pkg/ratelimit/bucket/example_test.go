package bucket_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vnykmshr/goflux/pkg/ratelimit/bucket"
)

// Example demonstrates basic usage of the token bucket rate limiter
func Example() {
	// 10 events per second with a burst of 5
	limiter, err := bucket.New(10, 5)
	if err != nil {
		log.Fatal(err)
	}

	allowed := 0
	for i := 0; i < 8; i++ {
		if limiter.Allow() {
			allowed++
		}
	}
	fmt.Println("allowed:", allowed)

	// Output: allowed: 5
}

// Example_wait demonstrates blocking until tokens are available
func Example_wait() {
	limiter, err := bucket.New(bucket.Every(time.Second), 1)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := limiter.Wait(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("first event")

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		fmt.Println("second event:", err)
	}

	// Output:
	// first event
	// second event: context deadline exceeded
}
