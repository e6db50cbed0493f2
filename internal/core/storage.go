package core

import "context"

type ProfileRepository interface {
	Profile(ctx context.Context) (UserProfile, error)
	SetFact(ctx context.Context, key FactKey, value string) error
	UpsertInterest(ctx context.Context, topic string, level int) error
	UpsertProgramming(ctx context.Context, language, framework string, level int) error
	AddAppointment(ctx context.Context, appt Appointment) (int64, error)
	NextAppointments(ctx context.Context, limit int) ([]Appointment, error)
	Snapshot(ctx context.Context) (Snapshot, error)
}

type ConversationRepository interface {
	AddTurn(ctx context.Context, turn Turn) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}
