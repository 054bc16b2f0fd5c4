package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/courseman/internal/model"
)

// PostgresCourseRepo はPostgreSQLを使用したコースリポジトリ。
type PostgresCourseRepo struct {
	db *sql.DB
}

// NewPostgresCourseRepo はPostgresCourseRepoを生成する。
func NewPostgresCourseRepo(db *sql.DB) *PostgresCourseRepo {
	return &PostgresCourseRepo{db: db}
}

// courseWithOwnerColumns はコースと所有者をJOINするSELECT句。
// password_hashは所有者情報として取得しない。
const courseWithOwnerColumns = `
	c.id, c.title, c.description, c.estimated_time, c.materials_needed,
	c.user_id, c.created_at, c.updated_at,
	u.id, u.first_name, u.last_name, u.email_address`

// scanCourseWithOwner は1行分のJOIN結果をCourseWithOwnerに読み込む。
func scanCourseWithOwner(row interface{ Scan(...any) error }) (*model.CourseWithOwner, error) {
	cw := &model.CourseWithOwner{}
	err := row.Scan(
		&cw.ID, &cw.Title, &cw.Description, &cw.EstimatedTime, &cw.MaterialsNeeded,
		&cw.UserID, &cw.CreatedAt, &cw.UpdatedAt,
		&cw.Owner.ID, &cw.Owner.FirstName, &cw.Owner.LastName, &cw.Owner.EmailAddress,
	)
	if err != nil {
		return nil, err
	}
	return cw, nil
}

// FindByID は指定IDのコースを所有者情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresCourseRepo) FindByID(ctx context.Context, id string) (*model.CourseWithOwner, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseWithOwnerColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = $1`,
		id,
	)

	cw, err := scanCourseWithOwner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}

	return cw, nil
}

// FindAll は全コースを所有者情報付きで作成日時の昇順で返す。
func (r *PostgresCourseRepo) FindAll(ctx context.Context) ([]model.CourseWithOwner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseWithOwnerColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 ORDER BY c.created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []model.CourseWithOwner{}
	for rows.Next() {
		cw, err := scanCourseWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, *cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course rows: %w", err)
	}

	return courses, nil
}

// Create はコースを作成する。
func (r *PostgresCourseRepo) Create(ctx context.Context, course *model.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, estimated_time, materials_needed, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		course.ID, course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded, course.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}

	return nil
}

// Update は指定IDのコースのタイトル・説明・任意フィールドを更新する。
// user_idは作成時に固定されるため更新対象に含めない。
func (r *PostgresCourseRepo) Update(ctx context.Context, course *model.Course) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses
		 SET title = $2, description = $3, estimated_time = $4, materials_needed = $5, updated_at = now()
		 WHERE id = $1`,
		course.ID, course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrCourseNotFound
	}

	return nil
}

// Delete は指定IDのコースを削除する。
func (r *PostgresCourseRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM courses WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrCourseNotFound
	}

	return nil
}

// compile-time interface check
var _ CourseRepository = (*PostgresCourseRepo)(nil)
