package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"jokerhigh-server/internal/config"
	"jokerhigh-server/internal/jwt"
	"jokerhigh-server/internal/mux"
	"jokerhigh-server/pkg/account"
	"jokerhigh-server/pkg/db"
	"jokerhigh-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadPublicKey()

	// run the db migrations
	db.Migrate()

	pitBoss := room.NewPitBoss(account.NewLedger(), roomConfigs())
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func roomConfigs() map[string]room.Config {
	configs := make(map[string]room.Config)
	for roomType, rc := range config.Instance().Rooms {
		configs[roomType] = room.Config{
			RoomType:       roomType,
			Ante:           rc.Ante,
			AnteMultiplier: rc.AnteMultiplier,
			MaxJokerCount:  rc.MaxJokerCount,
			TurnTime:       time.Duration(rc.TurnTimeSeconds) * time.Second,
			BotFillDelay:   time.Duration(rc.BotFillDelaySeconds) * time.Second,
			BotThinkMin:    time.Duration(rc.BotThinkMinMs) * time.Millisecond,
			BotThinkMax:    time.Duration(rc.BotThinkMaxMs) * time.Millisecond,
			RevealPause:    time.Duration(rc.RevealPauseMs) * time.Millisecond,
		}
	}

	return configs
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
