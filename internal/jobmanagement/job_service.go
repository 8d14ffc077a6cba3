package jobmanagement

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

// JobService creates and runs batch evaluation jobs.
type JobService struct {
	Runs *RunService
}

func NewJobService(runs *RunService) *JobService {
	return &JobService{Runs: runs}
}

// CreateAndRunBatchJob creates a batch evaluation job and runs it
// synchronously: every test case in testCaseIDs against every model in
// modelNames. Individual run failures are recorded on their test_results
// rows and do not fail the job; the job only fails when no run completes.
func (s *JobService) CreateAndRunBatchJob(ctx context.Context, jobName string, taskType taskcatalog.TaskType, testCaseIDs []int, modelNames []string, params json.RawMessage, opts taskcatalog.RunOptions) (*datastore.EvaluationJob, error) {
	log.Printf("INFO: creating batch job %q: task_type=%s test_cases=%v models=%v", jobName, taskType, testCaseIDs, modelNames)

	testCaseIDsJSON, err := datastore.MarshalIntSliceToJSON(testCaseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test_case_ids: %w", err)
	}
	modelNamesJSON, err := datastore.MarshalStringSliceToJSON(modelNames)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model_names: %w", err)
	}

	job := &datastore.EvaluationJob{
		JobName:     datastore.NewNullString(jobName),
		TaskType:    string(taskType),
		Status:      datastore.JobStatusPending,
		ModelNames:  modelNamesJSON,
		TestCaseIDs: testCaseIDsJSON,
		Parameters:  params,
	}

	jobID, err := datastore.CreateEvaluationJob(job)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation job: %w", err)
	}
	job.ID = jobID

	if err := datastore.UpdateEvaluationJobStatus(jobID, datastore.JobStatusRunning); err != nil {
		s.markFailed(job)
		return job, fmt.Errorf("failed to update job status to RUNNING: %w", err)
	}
	job.Status = datastore.JobStatusRunning

	startTime := time.Now()
	if err := datastore.UpdateEvaluationJobTimestamps(jobID, sql.NullTime{Time: startTime, Valid: true}, sql.NullTime{}); err != nil {
		s.markFailed(job)
		return job, fmt.Errorf("failed to update job started_at: %w", err)
	}
	job.StartedAt = datastore.NewNullTime(startTime)

	completed, failed := 0, 0
	jobRef := datastore.NewNullInt64(int64(jobID))
	for _, testCaseID := range testCaseIDs {
		for _, modelName := range modelNames {
			result, runErr := s.Runs.RunTest(ctx, testCaseID, modelName, opts, jobRef)
			if runErr != nil || result == nil || result.Status != datastore.ResultStatusCompleted {
				failed++
				if runErr != nil {
					log.Printf("WARNING: job %d: test case %d against %s failed: %v", jobID, testCaseID, modelName, runErr)
				}
				continue
			}
			completed++
		}
	}

	completedTime := time.Now()
	finalStatus := datastore.JobStatusCompleted
	if completed == 0 && failed > 0 {
		finalStatus = datastore.JobStatusFailed
	}
	job.Status = finalStatus

	if err := datastore.UpdateEvaluationJobStatus(jobID, finalStatus); err != nil {
		log.Printf("CRITICAL: failed to update job %d status to %s: %v", jobID, finalStatus, err)
	}
	if err := datastore.UpdateEvaluationJobTimestamps(jobID, sql.NullTime{}, sql.NullTime{Time: completedTime, Valid: true}); err != nil {
		log.Printf("CRITICAL: failed to update job %d completed_at: %v", jobID, err)
	}
	job.CompletedAt = datastore.NewNullTime(completedTime)

	log.Printf("INFO: batch job %d finished: %d completed, %d failed", jobID, completed, failed)

	if finalStatus == datastore.JobStatusFailed {
		return job, fmt.Errorf("all %d runs in job %d failed", failed, jobID)
	}
	return job, nil
}

func (s *JobService) markFailed(job *datastore.EvaluationJob) {
	_ = datastore.UpdateEvaluationJobStatus(job.ID, datastore.JobStatusFailed)
	_ = datastore.UpdateEvaluationJobTimestamps(job.ID, sql.NullTime{}, sql.NullTime{Time: time.Now(), Valid: true})
	job.Status = datastore.JobStatusFailed
}
