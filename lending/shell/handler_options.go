package shell

// HandlerConfig holds the optional collaborators of a command handler.
type HandlerConfig struct {
	RetryOptions []RetryOption
	Items        ItemStatusUpdater
	Publisher    TransitionPublisher
	Logger       ContextualLogger
}

// HandlerOption configures a command handler.
type HandlerOption func(*HandlerConfig)

// BuildHandlerConfig applies the options to an empty config.
func BuildHandlerConfig(opts ...HandlerOption) HandlerConfig {
	config := HandlerConfig{}

	for _, opt := range opts {
		opt(&config)
	}

	return config
}

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...RetryOption) HandlerOption {
	return func(c *HandlerConfig) {
		c.RetryOptions = opts
	}
}

// WithItemStatusUpdater sets the catalog that receives item status flips.
func WithItemStatusUpdater(items ItemStatusUpdater) HandlerOption {
	return func(c *HandlerConfig) {
		c.Items = items
	}
}

// WithPublisher sets where transition events go after a successful append.
func WithPublisher(publisher TransitionPublisher) HandlerOption {
	return func(c *HandlerConfig) {
		c.Publisher = publisher
	}
}

// WithLogger sets the logger for failures that do not fail the command.
func WithLogger(logger ContextualLogger) HandlerOption {
	return func(c *HandlerConfig) {
		c.Logger = logger
	}
}
