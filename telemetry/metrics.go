package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConflictsDetectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_conflicts_detected_total",
		Help: "Conflicts found when saving or checking an appointment",
	}, []string{"severity"})

	AppointmentsCommittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_appointments_committed_total",
		Help: "Appointments added to the schedule",
	}, []string{"resolution"})

	SlotCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_slot_cache_lookups_total",
		Help: "Slot search cache lookups",
	}, []string{"result"})

	DraftExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_draft_extractions_total",
		Help: "Transcripts turned into drafts",
	}, []string{"status"})

	DraftExtractionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontdesk_draft_extraction_latency_seconds",
		Help:    "Time spent in the extraction collaborator",
		Buckets: prometheus.DefBuckets,
	})

	CaptureTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_capture_transitions_total",
		Help: "Voice capture state transitions",
	}, []string{"from", "to"})

	RemindersFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_reminders_fired_total",
		Help: "Appointment reminders processed by the worker",
	})
)
