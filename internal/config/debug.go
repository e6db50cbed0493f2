package config

import "os"

func IsDebug() bool {
	return os.Getenv("EDBOT_DEBUG") == "1"
}
