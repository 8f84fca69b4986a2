package directory

import (
	"context"
	"log/slog"
	"strings"

	"hrconsole/internal/auth"
	domainauth "hrconsole/internal/domain/auth"
	"hrconsole/internal/platform/storage"
)

type Service struct {
	Store *Store
	Files *storage.Store
}

func NewService(store *Store, files *storage.Store) *Service {
	return &Service{Store: store, Files: files}
}

// NormalizeEmployeeNo trims and uppercases an employee or intern number.
func NormalizeEmployeeNo(no string) string {
	return strings.ToUpper(strings.TrimSpace(no))
}

func ValidSlot(slot string) bool {
	if slot == SlotOther {
		return true
	}
	for _, known := range NamedSlots {
		if slot == known {
			return true
		}
	}
	return false
}

// EmployeeNoAvailable is the server side of the console's debounced
// ID-availability probe.
func (s *Service) EmployeeNoAvailable(ctx context.Context, employeeNo string) (bool, error) {
	exists, err := s.Store.EmployeeNoExists(ctx, NormalizeEmployeeNo(employeeNo))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Employee, int, error) {
	return s.Store.ListEmployees(ctx, filter, limit, offset)
}

func (s *Service) Get(ctx context.Context, employeeID string) (Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

// Create registers the employee and, when a password is supplied, a linked
// console login with the employee number as username.
func (s *Service) Create(ctx context.Context, emp Employee, password string) (string, error) {
	emp.EmployeeNo = NormalizeEmployeeNo(emp.EmployeeNo)

	id, err := s.Store.CreateEmployee(ctx, emp)
	if err != nil {
		return "", err
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return "", err
		}
		if _, err := s.Store.DB.Exec(ctx, `
      INSERT INTO users (username, name, password_hash, role, designation_id, employee_id)
      VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (username) DO NOTHING
    `, strings.ToLower(emp.EmployeeNo), emp.Name, hash, domainauth.RoleStaff, nullIfEmpty(emp.DesignationID), id); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, employeeID string, emp Employee) error {
	return s.Store.UpdateEmployee(ctx, employeeID, emp)
}

// Delete removes the employee row and best-effort cleans up stored files.
func (s *Service) Delete(ctx context.Context, employeeID string) error {
	docs, err := s.Store.ListDocuments(ctx, employeeID)
	if err != nil {
		return err
	}
	emp, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteEmployee(ctx, employeeID); err != nil {
		return err
	}

	for _, doc := range docs {
		if err := s.Files.Remove(doc.Path); err != nil {
			slog.Warn("employee document cleanup failed", "path", doc.Path, "err", err)
		}
	}
	if emp.ProfileImage != "" {
		if err := s.Files.Remove(emp.ProfileImage); err != nil {
			slog.Warn("employee profile image cleanup failed", "path", emp.ProfileImage, "err", err)
		}
	}
	return nil
}

// AttachDocument stores a file into a slot. Named slots replace their current
// file; the "other" slot accumulates.
func (s *Service) AttachDocument(ctx context.Context, employeeID, slot, fileName string, data []byte) (Document, error) {
	if !ValidSlot(slot) {
		return Document{}, ErrUnknownSlot
	}
	if _, err := s.Store.GetEmployee(ctx, employeeID); err != nil {
		return Document{}, err
	}

	path, err := s.Files.Save("employees/"+employeeID, fileName, data)
	if err != nil {
		return Document{}, err
	}

	if slot != SlotOther {
		if current, ok, err := s.Store.SlotDocument(ctx, employeeID, slot); err == nil && ok {
			if err := s.Store.DeleteDocument(ctx, employeeID, current.ID); err != nil {
				return Document{}, err
			}
			if err := s.Files.Remove(current.Path); err != nil {
				slog.Warn("replaced document cleanup failed", "path", current.Path, "err", err)
			}
		} else if err != nil {
			return Document{}, err
		}
	}

	doc := Document{Slot: slot, Path: path, FileName: storage.SanitizeFileName(fileName)}
	id, err := s.Store.InsertDocument(ctx, employeeID, doc)
	if err != nil {
		return Document{}, err
	}
	doc.ID = id
	return doc, nil
}

func (s *Service) RemoveDocument(ctx context.Context, employeeID, documentID string) error {
	doc, err := s.Store.GetDocument(ctx, employeeID, documentID)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteDocument(ctx, employeeID, documentID); err != nil {
		return err
	}
	if err := s.Files.Remove(doc.Path); err != nil {
		slog.Warn("document cleanup failed", "path", doc.Path, "err", err)
	}
	return nil
}

func (s *Service) DocumentData(ctx context.Context, employeeID, documentID string) (Document, []byte, error) {
	doc, err := s.Store.GetDocument(ctx, employeeID, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	data, err := s.Files.Read(doc.Path)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, data, nil
}

func (s *Service) SetProfileImage(ctx context.Context, employeeID, fileName string, data []byte) (string, error) {
	emp, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return "", err
	}

	path, err := s.Files.Save("employees/"+employeeID, fileName, data)
	if err != nil {
		return "", err
	}
	emp.ProfileImage = path
	if err := s.Store.UpdateEmployee(ctx, employeeID, emp); err != nil {
		return "", err
	}
	return path, nil
}
