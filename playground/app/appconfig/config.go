package appconfig

// Config contains the playground configuration.
//
// Values are loaded from the environment, so GREETING=hola overrides the
// default greeting.
//
// @config
type Config struct {
	Greeting string `mapstructure:"greeting"`
	Repeat   int    `mapstructure:"repeat"`
}

func (c *Config) ApplyDefault() {
	if c.Greeting == "" {
		c.Greeting = "hello"
	}
	if c.Repeat == 0 {
		c.Repeat = 3
	}
}
