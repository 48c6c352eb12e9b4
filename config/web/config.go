package config

import "github.com/ilyakaznacheev/cleanenv"

type Config struct {
	Port         int    `env:"PORT" env-default:"8080"`
	AsrURL       string `env:"ASR_URL" env-default:"http://localhost:9000"`
	DatabaseURL  string `env:"DATABASE_URL"`
	BoltPath     string `env:"BOLT_PATH" env-default:"callsight.db"`
	UploadDir    string `env:"UPLOAD_DIR" env-default:"uploads"`
	JWTSecret    string `env:"JWT_SECRET"`
	TaskTTLHours int    `env:"TASK_TTL_HOURS" env-default:"24"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}

	return &cfg
}
