package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/config"
	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/finder"
)

/*
	- EventBridge rule triggers this every 15 minutes during booking season
	- Lambda marks the invocation failed on any returned error, EventBridge does not retry
*/

const component = "recgov-campsites"

func setup() (envVars *config.EnvironmentVariables, err error) {
	_, err = maxprocs.Set()
	if err != nil {
		return nil, fmt.Errorf("error setting GOMAXPROCS %w", err)
	}

	envVars, err = config.Load()
	if err != nil {
		return nil, err
	}

	return envVars, nil
}

func HandleRequest(ctx context.Context) (finder.Result, error) {
	envVars, err := setup()
	if err != nil {
		config.NewLogger(component, "info").WithError(err).Error("invalid configuration")
		return finder.Result{}, err
	}

	log := config.NewLogger(component, envVars.LogLevel)
	log.Info("starting up")

	defer log.Info("shutting down")

	job, err := finder.New(ctx, log, envVars)
	if err != nil {
		log.WithError(err).Error()
		return finder.Result{}, err
	}

	result, err := job.Run(ctx)
	if err != nil {
		log.WithError(err).Error()
		return result, err
	}

	return result, nil
}

func main() {
	lambda.Start(HandleRequest)
}
