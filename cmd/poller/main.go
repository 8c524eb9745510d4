// Command poller runs the campsite check locally on a cron schedule
// instead of from EventBridge.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/config"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/finder"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/results"
)

const component = "recgov-campsites-poller"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		config.NewLogger(component, "info").WithError(err).Warn("error loading .env file")
	}

	envVars, err := config.Load()
	if err != nil {
		config.NewLogger(component, "info").WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	log := config.NewLogger(component, envVars.LogLevel)

	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.WithError(err).Warn("error setting GOMAXPROCS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job, err := finder.New(ctx, log, envVars)
	if err != nil {
		log.WithError(err).Error()
		os.Exit(1)
	}

	run := func() {
		result, err := job.Run(ctx)
		if err != nil {
			log.WithError(err).Error("campsite check failed")
			return
		}

		if envVars.ResultsDir == "" || len(result.Matches) == 0 {
			return
		}

		path, err := results.WriteCSV(envVars.ResultsDir,
			job.Window.Start.Format(calendar.DateLayout),
			job.Window.End.Format(calendar.DateLayout),
			result.Matches)
		if err != nil {
			log.WithError(err).Error("error saving results")
			return
		}

		log.WithField("path", path).Info("saved results")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))))

	_, err = c.AddFunc(envVars.PollSchedule, run)
	if err != nil {
		log.WithError(err).WithField("schedule", envVars.PollSchedule).Error("invalid poll schedule")
		os.Exit(1)
	}

	run()

	c.Start()
	log.WithField("schedule", envVars.PollSchedule).Info("poller started")

	<-ctx.Done()

	<-c.Stop().Done()
	log.WithFields(logrus.Fields{"reason": ctx.Err()}).Info("poller stopped")
}
