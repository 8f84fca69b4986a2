package salary

import (
	"context"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type SaveInput struct {
	EmployeeID     string
	Year           int
	Month          int
	BasicSalary    float64
	TotalLeaveDays float64
	PaidLeaveDays  float64
	Incentive      float64
	Bonus          float64
	Medical        float64
	OtherAllowance float64
}

// Save computes the breakdown for the input figures and persists the record
// keyed by (employee, year, month).
func (s *Service) Save(ctx context.Context, in SaveInput) (Record, Breakdown, error) {
	breakdown, err := Compute(Inputs{
		Year:           in.Year,
		Month:          time.Month(in.Month),
		BasicSalary:    in.BasicSalary,
		TotalLeaveDays: in.TotalLeaveDays,
		PaidLeaveDays:  in.PaidLeaveDays,
		Incentive:      in.Incentive,
		Bonus:          in.Bonus,
		Medical:        in.Medical,
		OtherAllowance: in.OtherAllowance,
	})
	if err != nil {
		return Record{}, Breakdown{}, err
	}

	record, err := s.store.Upsert(ctx, Record{
		EmployeeID:     in.EmployeeID,
		Year:           in.Year,
		Month:          in.Month,
		BasicSalary:    in.BasicSalary,
		TotalLeaveDays: breakdown.TotalLeaveDays,
		PaidLeaveDays:  breakdown.PaidLeaveDays,
		Incentive:      in.Incentive,
		Bonus:          in.Bonus,
		Medical:        in.Medical,
		OtherAllowance: in.OtherAllowance,
		TotalSalary:    breakdown.TotalSalary,
	})
	if err != nil {
		return Record{}, Breakdown{}, err
	}
	return record, breakdown, nil
}

// UpdateLeaveDays patches only the leave-day figures of an existing record
// and recomputes its total from the stored pay components.
func (s *Service) UpdateLeaveDays(ctx context.Context, id string, totalLeaveDays, paidLeaveDays float64) (Record, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}

	record, _, err := s.Save(ctx, SaveInput{
		EmployeeID:     existing.EmployeeID,
		Year:           existing.Year,
		Month:          existing.Month,
		BasicSalary:    existing.BasicSalary,
		TotalLeaveDays: totalLeaveDays,
		PaidLeaveDays:  paidLeaveDays,
		Incentive:      existing.Incentive,
		Bonus:          existing.Bonus,
		Medical:        existing.Medical,
		OtherAllowance: existing.OtherAllowance,
	})
	return record, err
}

func (s *Service) ListMonth(ctx context.Context, year, month int) ([]Record, error) {
	return s.store.ListMonth(ctx, year, month)
}

func (s *Service) Get(ctx context.Context, employeeID string, year, month int) (Record, error) {
	return s.store.Get(ctx, employeeID, year, month)
}

func (s *Service) GetByID(ctx context.Context, id string) (Record, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
