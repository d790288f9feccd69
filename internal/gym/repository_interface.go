package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, name, code, currency, contactEmail string, paymentDeadlineDay int) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetGymByCode(ctx context.Context, code string) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}
