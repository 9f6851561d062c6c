package personrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/validator"
)

// Nomes das restrições de unicidade criadas nas migrations.
const (
	constraintEmail = "unq_person_email"
	constraintCPF   = "unq_naturalperson_cpf"

	uniqueViolation = "23505"
)

const personCacheKey = "person:%s"

const selectColumns = `
	SELECT p.id, p.name, p.email, p.picture, p.status, p.description, p.created_at, p.updated_at,
	       n.cpf, n.gender, n.birthday, n.income_range
	FROM person p
	JOIN natural_person n ON n.person_id = p.id`

// PersonRepository implementa domain.NaturalPersonRepository sobre PostgreSQL,
// com cache-aside no FindByID.
type PersonRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewPersonRepository cria o repositório. cacheClient pode ser nil (sem cache).
func NewPersonRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *PersonRepository {
	return &PersonRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner) (domain.NaturalPerson, error) {
	var (
		p         domain.NaturalPerson
		updatedAt sql.NullTime
		gender    string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Picture,
		&p.Status,
		&p.Description,
		&p.CreatedAt,
		&updatedAt,
		&p.CPF,
		&gender,
		&p.Birthday,
		&p.IncomeRange,
	)
	if err != nil {
		return domain.NaturalPerson{}, err
	}
	p.Gender = domain.Gender(gender)
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

// mapWriteError traduz violações de unicidade para erros de validação do campo.
func mapWriteError(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		switch pqErr.Constraint {
		case constraintEmail:
			return apperror.NewFieldError(validator.FieldEmail, validator.MsgEmailTaken)
		case constraintCPF:
			return apperror.NewFieldError(validator.FieldCPF, validator.MsgCPFTaken)
		}
	}
	return apperror.NewDBError(msg, err)
}

// Save insere person e natural_person na mesma transação.
func (r *PersonRepository) Save(ctx context.Context, person domain.NaturalPerson) (domain.NaturalPerson, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = time.Now().UTC()
	}

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.NaturalPerson{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	const personSQL = `INSERT INTO person (id, name, email, picture, status, description, created_at, updated_at)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = tx.ExecContext(ctxTimeout, personSQL,
		person.ID,
		person.Name,
		person.Email,
		person.Picture,
		person.Status,
		person.Description,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return domain.NaturalPerson{}, mapWriteError("failed to insert person", err)
	}

	const naturalSQL = `INSERT INTO natural_person (person_id, cpf, gender, birthday, income_range)
	                    VALUES ($1,$2,$3,$4,$5)`
	_, err = tx.ExecContext(ctxTimeout, naturalSQL,
		person.ID,
		person.CPF,
		string(person.Gender),
		person.Birthday,
		person.IncomeRange,
	)
	if err != nil {
		return domain.NaturalPerson{}, mapWriteError("failed to insert natural person", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.NaturalPerson{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.logger.Info("Pessoa física salva no repositório.", map[string]interface{}{"person_id": person.ID})
	return person, nil
}

// FindByID busca pelo ID usando cache-aside.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (domain.NaturalPerson, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(personCacheKey, id)
	if p, ok := r.fromCache(ctxTimeout, key); ok {
		return p, nil
	}

	row := r.DB.QueryRowContext(ctxTimeout, selectColumns+` WHERE p.id = $1`, id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NaturalPerson{}, apperror.NewNotFoundError(fmt.Sprintf("Pessoa com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.NaturalPerson{}, apperror.NewDBError("Falha ao buscar pessoa no DB", err)
	}

	r.toCache(ctxTimeout, key, p)
	return p, nil
}

// FindByEmail compara sem diferenciar maiúsculas (mesma regra do índice único).
func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (domain.NaturalPerson, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, selectColumns+` WHERE lower(p.email) = lower($1)`, email)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NaturalPerson{}, apperror.NewNotFoundError(fmt.Sprintf("Pessoa com e-mail '%s' não encontrada.", email))
	}
	if err != nil {
		return domain.NaturalPerson{}, apperror.NewDBError("Falha ao buscar pessoa por e-mail no DB", err)
	}
	return p, nil
}

func (r *PersonRepository) FindAll(ctx context.Context) ([]domain.NaturalPerson, error) {
	return r.query(ctx, selectColumns+` ORDER BY p.created_at DESC`)
}

// Search: prefixo do nome OU trecho do CPF OU trecho do e-mail.
func (r *PersonRepository) Search(ctx context.Context, term string) ([]domain.NaturalPerson, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.FindAll(ctx)
	}
	like := escapeLike(term)
	return r.query(ctx, selectColumns+`
		WHERE p.name ILIKE $1::text || '%' OR n.cpf LIKE '%' || $1::text || '%' OR p.email ILIKE '%' || $1::text || '%'
		ORDER BY p.created_at DESC`, like)
}

func (r *PersonRepository) query(ctx context.Context, q string, args ...interface{}) ([]domain.NaturalPerson, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, q, args...)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar pessoas no DB", err)
	}
	defer rows.Close()

	people := make([]domain.NaturalPerson, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler pessoa do DB", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar pessoas do DB", err)
	}
	return people, nil
}

// Update nunca grava o CPF; o valor persistido volta no registro atualizado.
func (r *PersonRepository) Update(ctx context.Context, person domain.NaturalPerson) (domain.NaturalPerson, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.NaturalPerson{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	const personSQL = `UPDATE person
	                   SET name = $2, email = $3, picture = $4, status = $5, description = $6, updated_at = $7
	                   WHERE id = $1
	                   RETURNING created_at`
	err = tx.QueryRowContext(ctxTimeout, personSQL,
		person.ID,
		person.Name,
		person.Email,
		person.Picture,
		person.Status,
		person.Description,
		person.UpdatedAt,
	).Scan(&person.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NaturalPerson{}, apperror.NewNotFoundError(fmt.Sprintf("Pessoa com ID %s não existe na base de dados.", person.ID))
	}
	if err != nil {
		return domain.NaturalPerson{}, mapWriteError("failed to update person", err)
	}

	const naturalSQL = `UPDATE natural_person
	                    SET gender = $2, birthday = $3, income_range = $4
	                    WHERE person_id = $1
	                    RETURNING cpf`
	err = tx.QueryRowContext(ctxTimeout, naturalSQL,
		person.ID,
		string(person.Gender),
		person.Birthday,
		person.IncomeRange,
	).Scan(&person.CPF)
	if err != nil {
		return domain.NaturalPerson{}, mapWriteError("failed to update natural person", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.NaturalPerson{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.invalidate(ctxTimeout, person.ID)
	return person, nil
}

// Delete remove a pessoa; natural_person cai em cascata.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM person WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("Falha ao remover pessoa no DB", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao remover pessoa no DB", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pessoa com ID %s não existe na base de dados.", id))
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// --- Cache-Aside ---

func (r *PersonRepository) fromCache(ctx context.Context, key string) (domain.NaturalPerson, bool) {
	if r.Cache == nil {
		return domain.NaturalPerson{}, false
	}
	cached, err := r.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return domain.NaturalPerson{}, false
	}
	var p domain.NaturalPerson
	if err := json.Unmarshal([]byte(cached), &p); err != nil {
		r.logger.Warn("Entrada de cache corrompida.", map[string]interface{}{"key": key})
		return domain.NaturalPerson{}, false
	}
	return p, true
}

func (r *PersonRepository) toCache(ctx context.Context, key string, p domain.NaturalPerson) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *PersonRepository) invalidate(ctx context.Context, id string) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Delete(ctx, fmt.Sprintf(personCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache.", map[string]interface{}{"person_id": id, "error": err.Error()})
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
