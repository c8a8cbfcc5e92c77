/*
Package config loads goflux settings and assembles the shared runtime that
subscriptions execute on.

Load reads an optional YAML file, an optional .env file and GOFLUX_-prefixed
environment variables with viper, then applies defaults and validates:

	cfg, err := config.Load(config.WithConfigFile("config.yml"))
	if err != nil {
		log.Fatal(err)
	}

	rt, err := config.Build(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Close(context.Background())

	names.Subscribe(onNext, onError, onComplete, rt.Options()...)

A file covering every key:

	pool:
	  name: subscriptions
	  workers: 4          # 0 runs each subscription on its own goroutine
	  queue_size: 16
	  task_timeout: 30s
	scheduler:
	  location: UTC
	log:
	  level: info
	  format: json        # or console
	  output: stdout      # stderr, discard
	metrics:
	  enabled: true
	  namespace: goflux
	tracing:
	  enabled: true
	  sample_rate: 1.0

Nested keys map to environment variables by upper-casing and replacing dots
with underscores, e.g. GOFLUX_POOL_WORKERS or GOFLUX_LOG_LEVEL.
*/
package config
