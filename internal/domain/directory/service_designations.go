package directory

import "context"

func (s *Service) ListDesignations(ctx context.Context) ([]Designation, error) {
	return s.Store.ListDesignations(ctx)
}

func (s *Service) CreateDesignation(ctx context.Context, name string) (string, error) {
	return s.Store.CreateDesignation(ctx, name)
}

func (s *Service) UpdateDesignation(ctx context.Context, designationID, name string) error {
	return s.Store.UpdateDesignation(ctx, designationID, name)
}

func (s *Service) DeleteDesignation(ctx context.Context, designationID string) error {
	return s.Store.DeleteDesignation(ctx, designationID)
}
