package service

import "github.com/prometheus/client_golang/prometheus"

var (
	jobsPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobportal_jobs_posted_total",
		Help: "Jobs created by employers.",
	})
	applicationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobportal_applications_submitted_total",
		Help: "Applications accepted by Apply.",
	})
	applicationConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobportal_application_conflicts_total",
		Help: "Duplicate applications rejected by the unique index or pre-check.",
	})
	statusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_application_status_changes_total",
		Help: "Application status updates by target status.",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(jobsPosted, applicationsSubmitted, applicationConflicts, statusChanges)
}
