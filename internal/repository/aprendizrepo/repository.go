package aprendizrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/cache"
	"etapaproductiva/internal/pkg/logger"
)

// columnasEscritura es la lista permitida de columnas escribibles, en orden
// estable. Todo INSERT y UPDATE se construye iterando esta lista: una clave
// del payload que no aparezca aquí jamás llega al SQL.
var columnasEscritura = []struct {
	Campo   string // nombre del campo en el payload
	Columna string // nombre de la columna en la tabla aprendices
}{
	{"nombres", "nombres"},
	{"primerApellido", "primer_apellido"},
	{"segundoApellido", "segundo_apellido"},
	{"tipoDocumento", "tipo_documento"},
	{"numeroDocumento", "numero_documento"},
	{"fechaNacimiento", "fecha_nacimiento"},
	{"celular", "celular"},
	{"direccion", "direccion"},
	{"departamento", "departamento"},
	{"municipio", "municipio"},
	{"barrio", "barrio"},
	{"correoElectronico", "correo_electronico"},
	{"numeroFicha", "numero_ficha"},
	{"programaFormacion", "programa_formacion"},
	{"alternativaSeleccionada", "alternativa_seleccionada"},
	{"empresaPatrocinadora", "empresa_patrocinadora"},
	{"correoEmpresa", "correo_empresa"},
	{"telefonoEmpresa", "telefono_empresa"},
	{"direccionEmpresa", "direccion_empresa"},
	{"jefeInmediato", "jefe_inmediato"},
	{"fechaInicioFormacion", "fecha_inicio_formacion"},
	{"fechaInicioLectiva", "fecha_inicio_lectiva"},
	{"fechaFinLectiva", "fecha_fin_lectiva"},
	{"fechaInicioProductiva", "fecha_inicio_productiva"},
	{"fechaFinProductiva", "fecha_fin_productiva"},
}

// columnasLectura es la lista de columnas de todo SELECT, alineada con
// escanearAprendiz.
const columnasLectura = `id, nombres, primer_apellido, segundo_apellido, tipo_documento,
	numero_documento, fecha_nacimiento, celular, direccion, departamento, municipio, barrio,
	correo_electronico, numero_ficha, programa_formacion, alternativa_seleccionada,
	empresa_patrocinadora, correo_empresa, telefono_empresa, direccion_empresa, jefe_inmediato,
	fecha_inicio_formacion, fecha_inicio_lectiva, fecha_fin_lectiva,
	fecha_inicio_productiva, fecha_fin_productiva, password, creado_en, actualizado_en`

const claveCacheAprendiz = "aprendiz:%d"

// AprendizRepository implementa la interfaz domain.AprendizRepository sobre
// PostgreSQL, con lecturas por ID en cache Redis.
type AprendizRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAprendizRepository crea una nueva instancia del repositorio.
func NewAprendizRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *AprendizRepository {
	return &AprendizRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Crear inserta un nuevo aprendiz y retorna el ID asignado. La restricción
// UNIQUE sobre correo_electronico respalda la verificación previa del flujo
// de registro: la violación se reporta con el mismo tipo DuplicateEmail.
func (r *AprendizRepository) Crear(ctx context.Context, camposAprendiz map[string]string) (int64, error) {
	r.logger.Debug("Iniciando Crear en el repositorio de aprendices.", map[string]interface{}{"correo": camposAprendiz["correoElectronico"]})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var columnas []string
	var marcadores []string
	var valores []interface{}

	for _, c := range columnasEscritura {
		valor, presente := camposAprendiz[c.Campo]
		if !presente || valor == "" {
			continue
		}
		columnas = append(columnas, c.Columna)
		marcadores = append(marcadores, fmt.Sprintf("$%d", len(valores)+1))
		valores = append(valores, valor)
	}

	if len(columnas) == 0 {
		return 0, apperror.NewInternalError("Inserción sin columnas", nil)
	}

	query := fmt.Sprintf(`INSERT INTO aprendices (%s) VALUES (%s) RETURNING id`,
		strings.Join(columnas, ", "), strings.Join(marcadores, ", "))

	var id int64
	err := r.DB.QueryRowContext(ctxTimeout, query, valores...).Scan(&id)
	if err != nil {
		if esCorreoDuplicado(err) {
			r.logger.Info("Inserción rechazada por correo duplicado.", map[string]interface{}{"correo": camposAprendiz["correoElectronico"]})
			return 0, apperror.NewDuplicateEmailError(camposAprendiz["correoElectronico"])
		}
		r.logger.Error("Falla al insertar aprendiz en la base de datos.", err)
		return 0, r.clasificarError("Falla al insertar aprendiz", err)
	}

	r.logger.Info("Aprendiz insertado.", map[string]interface{}{"id": id})
	return id, nil
}

// BuscarPorID busca un aprendiz por ID con estrategia cache-aside.
func (r *AprendizRepository) BuscarPorID(ctx context.Context, id int64) (domain.Aprendiz, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	clave := fmt.Sprintf(claveCacheAprendiz, id)

	var aprendiz domain.Aprendiz
	if cacheado, err := r.Cache.Get(ctxTimeout, clave); err == nil {
		if json.Unmarshal([]byte(cacheado), &aprendiz) == nil {
			return aprendiz, nil
		}
		// Entrada ilegible: seguir a la base de datos.
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falla al leer el cache de aprendices; consultando la base de datos.", map[string]interface{}{"error": err.Error()})
	}

	query := fmt.Sprintf(`SELECT %s FROM aprendices WHERE id = $1`, columnasLectura)
	aprendiz, err := escanearAprendiz(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Aprendiz{}, apperror.NewNotFoundError("Aprendiz no encontrado")
		}
		r.logger.Error("Falla al buscar aprendiz por ID.", err)
		return domain.Aprendiz{}, r.clasificarError("Falla al buscar aprendiz por ID", err)
	}

	if serializado, marshalErr := json.Marshal(aprendiz); marshalErr == nil {
		r.Cache.Set(ctxTimeout, clave, serializado, 5*time.Minute)
	}

	return aprendiz, nil
}

// BuscarPorCorreo busca un aprendiz por correo electrónico. Sin cache: es
// la lectura del flujo de activación y debe ver el estado actual.
func (r *AprendizRepository) BuscarPorCorreo(ctx context.Context, correo string) (domain.Aprendiz, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM aprendices WHERE correo_electronico = $1`, columnasLectura)
	aprendiz, err := escanearAprendiz(r.DB.QueryRowContext(ctxTimeout, query, correo))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Aprendiz{}, apperror.NewNotFoundError("Aprendiz no encontrado")
		}
		r.logger.Error("Falla al buscar aprendiz por correo.", err)
		return domain.Aprendiz{}, r.clasificarError("Falla al buscar aprendiz por correo", err)
	}

	return aprendiz, nil
}

// Actualizar aplica una actualización parcial sobre los campos
// suministrados. El llamador ya eliminó los vacíos; un mapa vacío es
// NothingToUpdate y una fila inexistente es NotFound.
func (r *AprendizRepository) Actualizar(ctx context.Context, id int64, camposAprendiz map[string]string) error {
	r.logger.Debug("Iniciando Actualizar en el repositorio de aprendices.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var asignaciones []string
	var valores []interface{}

	for _, c := range columnasEscritura {
		valor, presente := camposAprendiz[c.Campo]
		if !presente {
			continue
		}
		asignaciones = append(asignaciones, fmt.Sprintf("%s = $%d", c.Columna, len(valores)+1))
		valores = append(valores, valor)
	}

	if len(asignaciones) == 0 {
		return apperror.NewNothingToUpdateError()
	}

	asignaciones = append(asignaciones, "actualizado_en = now()")
	valores = append(valores, id)

	query := fmt.Sprintf(`UPDATE aprendices SET %s WHERE id = $%d`,
		strings.Join(asignaciones, ", "), len(valores))

	resultado, err := r.DB.ExecContext(ctxTimeout, query, valores...)
	if err != nil {
		if esCorreoDuplicado(err) {
			return apperror.NewDuplicateEmailError(camposAprendiz["correoElectronico"])
		}
		r.logger.Error("Falla al actualizar aprendiz.", err)
		return r.clasificarError("Falla al actualizar aprendiz", err)
	}

	filas, err := resultado.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falla al leer las filas afectadas", err)
	}
	if filas == 0 {
		return apperror.NewNotFoundError("Aprendiz no encontrado")
	}

	r.invalidarCache(ctxTimeout, id)
	r.logger.Info("Aprendiz actualizado.", map[string]interface{}{"id": id, "campos": len(camposAprendiz)})
	return nil
}

// ActualizarPassword establece el hash de contraseña del aprendiz
// identificado por correo.
func (r *AprendizRepository) ActualizarPassword(ctx context.Context, correo string, hash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var id int64
	err := r.DB.QueryRowContext(ctxTimeout,
		`UPDATE aprendices SET password = $1, actualizado_en = now() WHERE correo_electronico = $2 RETURNING id`,
		hash, correo,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFoundError("Aprendiz no encontrado")
		}
		r.logger.Error("Falla al actualizar la contraseña.", err)
		return r.clasificarError("Falla al actualizar la contraseña", err)
	}

	r.invalidarCache(ctxTimeout, id)
	r.logger.Info("Contraseña establecida.", map[string]interface{}{"id": id})
	return nil
}

// Eliminar borra físicamente la fila del aprendiz.
func (r *AprendizRepository) Eliminar(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	resultado, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM aprendices WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falla al eliminar aprendiz.", err)
		return r.clasificarError("Falla al eliminar aprendiz", err)
	}

	filas, err := resultado.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falla al leer las filas afectadas", err)
	}
	if filas == 0 {
		return apperror.NewNotFoundError("Aprendiz no encontrado")
	}

	r.invalidarCache(ctxTimeout, id)
	r.logger.Info("Aprendiz eliminado.", map[string]interface{}{"id": id})
	return nil
}

// Listar retorna la página solicitada en orden estable por ID, junto con el
// total de registros.
func (r *AprendizRepository) Listar(ctx context.Context, pagina int, tamano int) ([]domain.Aprendiz, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM aprendices`).Scan(&total); err != nil {
		r.logger.Error("Falla al contar aprendices.", err)
		return nil, 0, r.clasificarError("Falla al contar aprendices", err)
	}

	offset := (pagina - 1) * tamano
	query := fmt.Sprintf(`SELECT %s FROM aprendices ORDER BY id LIMIT $1 OFFSET $2`, columnasLectura)

	rows, err := r.DB.QueryContext(ctxTimeout, query, tamano, offset)
	if err != nil {
		r.logger.Error("Falla al listar aprendices.", err)
		return nil, 0, r.clasificarError("Falla al listar aprendices", err)
	}
	defer rows.Close()

	aprendices, err := escanearFilas(rows)
	if err != nil {
		return nil, 0, r.clasificarError("Falla al leer el listado de aprendices", err)
	}

	return aprendices, total, nil
}

// Buscar ejecuta la búsqueda administrativa con los predicados tipados
// combinados con AND. Sin criterios retorna la colección completa.
func (r *AprendizRepository) Buscar(ctx context.Context, criterios domain.CriteriosBusqueda) ([]domain.Aprendiz, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	condiciones, valores := construirPredicados(criterios)

	query := fmt.Sprintf(`SELECT %s FROM aprendices`, columnasLectura)
	if len(condiciones) > 0 {
		query += " WHERE " + strings.Join(condiciones, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, valores...)
	if err != nil {
		r.logger.Error("Falla en la búsqueda de aprendices.", err)
		return nil, r.clasificarError("Falla en la búsqueda de aprendices", err)
	}
	defer rows.Close()

	aprendices, err := escanearFilas(rows)
	if err != nil {
		return nil, r.clasificarError("Falla al leer los resultados de búsqueda", err)
	}

	return aprendices, nil
}

// ProgramasDistintos retorna los programas de formación presentes en la
// colección, para poblar los filtros del panel.
func (r *AprendizRepository) ProgramasDistintos(ctx context.Context) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT DISTINCT programa_formacion FROM aprendices ORDER BY programa_formacion`)
	if err != nil {
		r.logger.Error("Falla al consultar los programas de formación.", err)
		return nil, r.clasificarError("Falla al consultar los programas de formación", err)
	}
	defer rows.Close()

	var programas []string
	for rows.Next() {
		var programa string
		if err := rows.Scan(&programa); err != nil {
			return nil, apperror.NewDBError("Falla al leer programa de formación", err)
		}
		programas = append(programas, programa)
	}
	if err := rows.Err(); err != nil {
		return nil, r.clasificarError("Falla al recorrer los programas de formación", err)
	}

	return programas, nil
}

// --- Auxiliares ---

// esCorreoDuplicado indica si el error del driver es la violación de la
// restricción UNIQUE sobre correo_electronico (código 23505).
func esCorreoDuplicado(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// clasificarError distingue la base de datos caída o lenta (503) de
// cualquier otra falla del driver (500).
func (r *AprendizRepository) clasificarError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, sql.ErrConnDone) {
		return apperror.NewStorageUnavailableError(err)
	}
	return apperror.NewDBError(msg, err)
}

func (r *AprendizRepository) invalidarCache(ctx context.Context, id int64) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(claveCacheAprendiz, id)); err != nil {
		r.logger.Warn("Falla al invalidar el cache del aprendiz.", map[string]interface{}{"id": id, "error": err.Error()})
	}
}

// escaneador cubre tanto *sql.Row como *sql.Rows.
type escaneador interface {
	Scan(dest ...interface{}) error
}

// escanearAprendiz mapea una fila al dominio. Las columnas opcionales y las
// fechas llegan como tipos anulables y se convierten a los textos del
// formato de almacenamiento.
func escanearAprendiz(fila escaneador) (domain.Aprendiz, error) {
	var a domain.Aprendiz
	var segundoApellido, barrio, empresa, correoEmpresa, telefonoEmpresa, direccionEmpresa, jefe, password sql.NullString
	var nacimiento, inicioFormacion, inicioLectiva, finLectiva, inicioProductiva, finProductiva sql.NullTime

	err := fila.Scan(
		&a.ID, &a.Nombres, &a.PrimerApellido, &segundoApellido, &a.TipoDocumento,
		&a.NumeroDocumento, &nacimiento, &a.Celular, &a.Direccion, &a.Departamento, &a.Municipio, &barrio,
		&a.CorreoElectronico, &a.NumeroFicha, &a.ProgramaFormacion, &a.AlternativaSeleccionada,
		&empresa, &correoEmpresa, &telefonoEmpresa, &direccionEmpresa, &jefe,
		&inicioFormacion, &inicioLectiva, &finLectiva,
		&inicioProductiva, &finProductiva, &password, &a.CreadoEn, &a.ActualizadoEn,
	)
	if err != nil {
		return domain.Aprendiz{}, err
	}

	a.SegundoApellido = segundoApellido.String
	a.Barrio = barrio.String
	a.EmpresaPatrocinadora = empresa.String
	a.CorreoEmpresa = correoEmpresa.String
	a.TelefonoEmpresa = telefonoEmpresa.String
	a.DireccionEmpresa = direccionEmpresa.String
	a.JefeInmediato = jefe.String
	a.PasswordHash = password.String

	a.FechaNacimiento = fechaATexto(nacimiento)
	a.FechaInicioFormacion = fechaATexto(inicioFormacion)
	a.FechaInicioLectiva = fechaATexto(inicioLectiva)
	a.FechaFinLectiva = fechaATexto(finLectiva)
	a.FechaInicioProductiva = fechaATexto(inicioProductiva)
	a.FechaFinProductiva = fechaATexto(finProductiva)

	return a, nil
}

func escanearFilas(rows *sql.Rows) ([]domain.Aprendiz, error) {
	aprendices := []domain.Aprendiz{}
	for rows.Next() {
		aprendiz, err := escanearAprendiz(rows)
		if err != nil {
			return nil, err
		}
		aprendices = append(aprendices, aprendiz)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aprendices, nil
}

func fechaATexto(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02")
}
