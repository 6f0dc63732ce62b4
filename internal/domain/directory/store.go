package directory

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var department Department
		if err := rows.Scan(&department.ID, &department.Name, &department.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, nil
}

func (s *Store) CreateDepartment(ctx context.Context, name string) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name)
    VALUES ($1)
    RETURNING id
  `, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.name, e.email, COALESCE(e.department_id::text, ''), COALESCE(d.name, ''), e.role, e.status, e.created_at
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    ORDER BY e.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var employee Employee
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Email, &employee.DepartmentID, &employee.DepartmentName, &employee.Role, &employee.Status, &employee.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var employee Employee
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, e.name, e.email, COALESCE(e.department_id::text, ''), COALESCE(d.name, ''), e.role, e.status, e.created_at
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.id = $1
  `, id).Scan(&employee.ID, &employee.Name, &employee.Email, &employee.DepartmentID, &employee.DepartmentName, &employee.Role, &employee.Status, &employee.CreatedAt)
	return employee, err
}

func (s *Store) CreateEmployee(ctx context.Context, employee Employee) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, department_id, role, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, employee.Name, employee.Email, nullIfEmpty(employee.DepartmentID), employee.Role, employee.Status).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, employee Employee) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1, email = $2, department_id = $3, role = $4, status = $5
    WHERE id = $6
  `, employee.Name, employee.Email, nullIfEmpty(employee.DepartmentID), employee.Role, employee.Status, id)
	return err
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
