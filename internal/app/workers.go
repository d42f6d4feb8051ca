package app

import (
	"context"

	"childcare-assistant/internal/common/camunda"
	"childcare-assistant/internal/common/config"
	composeresponse "childcare-assistant/internal/workers/assistant/compose-response"
	deliverreport "childcare-assistant/internal/workers/assistant/deliver-report"
	fetchdata "childcare-assistant/internal/workers/assistant/fetch-data"
	interpretquery "childcare-assistant/internal/workers/assistant/interpret-query"
	translatetext "childcare-assistant/internal/workers/assistant/translate-text"
)

// Handlers builds the job handler of every worker, keyed by task type.
func (a *App) Handlers(ctx context.Context) (map[string]camunda.JobHandler, error) {
	mailer, texter, err := a.Notifiers(ctx)
	if err != nil {
		return nil, err
	}

	cfg := a.Config
	return map[string]camunda.JobHandler{
		interpretquery.TaskType:  interpretquery.NewHandler(interpretquery.NewConfig(cfg), a.Interpreter, a.Logger),
		fetchdata.TaskType:       fetchdata.NewHandler(fetchdata.NewConfig(cfg), a.Aggregator, a.Logger),
		composeresponse.TaskType: composeresponse.NewHandler(composeresponse.NewConfig(cfg), a.Composer, a.Logger),
		translatetext.TaskType:   translatetext.NewHandler(translatetext.NewConfig(cfg), a.Translation, a.Logger),
		deliverreport.TaskType:   deliverreport.NewHandler(deliverreport.NewConfig(cfg), mailer, texter, a.Logger),
	}, nil
}

// StartWorkers opens a job worker for every enabled task type.
func (a *App) StartWorkers(ctx context.Context, workers *camunda.Workers) error {
	handlers, err := a.Handlers(ctx)
	if err != nil {
		return err
	}
	for _, taskType := range config.WorkerNames {
		workers.Start(taskType, config.GetWorkerConfig(a.Config, taskType), handlers[taskType])
	}
	return nil
}
