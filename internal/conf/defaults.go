// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Planktos-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "planktos.log")
	viper.SetDefault("main.log.maxsize", 100)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxage", 28)

	viper.SetDefault("backend.url", "http://localhost:5175")
	viper.SetDefault("backend.timeout", 30*time.Second)

	viper.SetDefault("web.address", "0.0.0.0")
	viper.SetDefault("web.port", "8090")

	viper.SetDefault("gallery.path", "data/")
	viper.SetDefault("gallery.maxitems", 200)

	viper.SetDefault("chat.greeting",
		"Hello — upload a sample image to begin analysis or ask about marine organisms and ocean health.")
	viper.SetDefault("chat.placeholder", "Contacting server for a real answer...")

	viper.SetDefault("export.title", "Dashboard report")
	viper.SetDefault("export.shareurl", "")
}
