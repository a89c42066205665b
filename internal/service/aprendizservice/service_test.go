package aprendizservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
	"etapaproductiva/internal/pkg/sesion"
	"etapaproductiva/internal/service/aprendizservice"
)

// MockAprendizRepository es una implementación mock de la interfaz
// AprendizRepository.
type MockAprendizRepository struct {
	mock.Mock
}

func (m *MockAprendizRepository) Crear(ctx context.Context, campos map[string]string) (int64, error) {
	args := m.Called(ctx, campos)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAprendizRepository) BuscarPorID(ctx context.Context, id int64) (domain.Aprendiz, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Aprendiz), args.Error(1)
}

func (m *MockAprendizRepository) BuscarPorCorreo(ctx context.Context, correo string) (domain.Aprendiz, error) {
	args := m.Called(ctx, correo)
	return args.Get(0).(domain.Aprendiz), args.Error(1)
}

func (m *MockAprendizRepository) Actualizar(ctx context.Context, id int64, campos map[string]string) error {
	args := m.Called(ctx, id, campos)
	return args.Error(0)
}

func (m *MockAprendizRepository) ActualizarPassword(ctx context.Context, correo string, hash string) error {
	args := m.Called(ctx, correo, hash)
	return args.Error(0)
}

func (m *MockAprendizRepository) Eliminar(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAprendizRepository) Listar(ctx context.Context, pagina int, tamano int) ([]domain.Aprendiz, int, error) {
	args := m.Called(ctx, pagina, tamano)
	return args.Get(0).([]domain.Aprendiz), args.Int(1), args.Error(2)
}

func (m *MockAprendizRepository) Buscar(ctx context.Context, criterios domain.CriteriosBusqueda) ([]domain.Aprendiz, error) {
	args := m.Called(ctx, criterios)
	return args.Get(0).([]domain.Aprendiz), args.Error(1)
}

func (m *MockAprendizRepository) ProgramasDistintos(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// MockSesionStore es una implementación mock del almacén de sesiones de
// registro.
type MockSesionStore struct {
	mock.Mock
}

func (m *MockSesionStore) Crear(ctx context.Context, correo string) (string, error) {
	args := m.Called(ctx, correo)
	return args.String(0), args.Error(1)
}

func (m *MockSesionStore) Obtener(ctx context.Context, token string) (sesion.Marcador, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(sesion.Marcador), args.Error(1)
}

func (m *MockSesionStore) Eliminar(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func nuevoServicio(repo *MockAprendizRepository, sesiones *MockSesionStore) *aprendizservice.Service {
	return aprendizservice.NewService(repo, sesiones, 50, logger.NewLogger("debug"))
}

// payloadRegistro usa deliberadamente el alias corto de alternativa, una
// fecha en formato de vista y el correo con mayúsculas para ejercitar la
// normalización.
func payloadRegistro() map[string]string {
	return map[string]string{
		"nombres":                 "Ana María",
		"primerApellido":          "Pérez",
		"tipoDocumento":           "CC",
		"numeroDocumento":         "1002003004",
		"fechaNacimiento":         "15/05/2000",
		"celular":                 "3001234567",
		"direccion":               "Calle 10 # 5-20",
		"departamento":            "Antioquia",
		"municipio":               "Medellín",
		"correoElectronico":       "Ana.Perez@Example.com",
		"numeroFicha":             "2826503",
		"programaFormacion":       "tecnoActividadFisica",
		"alternativaSeleccionada": "contrato",
	}
}

// TestRegistrar_Exito el registro valida, normaliza, inserta y deja el
// marcador de sesión.
func TestRegistrar_Exito(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("BuscarPorCorreo", mock.Anything, "ana.perez@example.com").
		Return(domain.Aprendiz{}, apperror.NewNotFoundError("Aprendiz no encontrado"))

	mockRepo.On("Crear", mock.Anything, mock.MatchedBy(func(campos map[string]string) bool {
		return campos["correoElectronico"] == "ana.perez@example.com" &&
			campos["alternativaSeleccionada"] == "contratoAprendizaje" &&
			campos["fechaNacimiento"] == "2000-05-15"
	})).Return(int64(42), nil)

	mockSesiones.On("Crear", mock.Anything, "ana.perez@example.com").Return("token-opaco", nil)

	resultado, err := svc.Registrar(context.Background(), payloadRegistro())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resultado.ID)
	assert.Equal(t, "token-opaco", resultado.Token)
	mockRepo.AssertExpectations(t)
	mockSesiones.AssertExpectations(t)
}

// TestRegistrar_Fail_Validacion un payload incompleto nunca llega al
// repositorio.
func TestRegistrar_Fail_Validacion(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	_, err := svc.Registrar(context.Background(), map[string]string{"nombres": "Ana"})

	var validacionErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validacionErr)
	assert.NotEmpty(t, validacionErr.Errores)
	mockRepo.AssertNotCalled(t, "Crear", mock.Anything, mock.Anything)
}

// TestRegistrar_Fail_CorreoDuplicado un correo ya registrado se rechaza en
// la verificación previa, sin intentar la inserción.
func TestRegistrar_Fail_CorreoDuplicado(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("BuscarPorCorreo", mock.Anything, "ana.perez@example.com").
		Return(domain.Aprendiz{ID: 7, CorreoElectronico: "ana.perez@example.com"}, nil)

	_, err := svc.Registrar(context.Background(), payloadRegistro())

	var duplicadoErr *apperror.DuplicateEmailError
	assert.ErrorAs(t, err, &duplicadoErr)
	mockRepo.AssertNotCalled(t, "Crear", mock.Anything, mock.Anything)
	mockSesiones.AssertNotCalled(t, "Crear", mock.Anything, mock.Anything)
}

// TestRegistrar_Fail_SesionNoGuardada si el marcador de sesión no se puede
// guardar, el registro se reporta fallido.
func TestRegistrar_Fail_SesionNoGuardada(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("BuscarPorCorreo", mock.Anything, "ana.perez@example.com").
		Return(domain.Aprendiz{}, apperror.NewNotFoundError("Aprendiz no encontrado"))
	mockRepo.On("Crear", mock.Anything, mock.Anything).Return(int64(42), nil)
	mockSesiones.On("Crear", mock.Anything, "ana.perez@example.com").
		Return("", apperror.NewInternalError("Redis no disponible", nil))

	_, err := svc.Registrar(context.Background(), payloadRegistro())

	assert.Error(t, err)
}

// TestFormularioPassword_SinSesion sin marcador de sesión el formulario se
// rechaza con 401.
func TestFormularioPassword_SinSesion(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockSesiones.On("Obtener", mock.Anything, "").Return(sesion.Marcador{}, apperror.NewNoSessionError())

	_, err := svc.FormularioPassword(context.Background(), "")

	var sinSesion *apperror.NoSessionError
	assert.ErrorAs(t, err, &sinSesion)
	mockRepo.AssertNotCalled(t, "BuscarPorCorreo", mock.Anything, mock.Anything)
}

// TestFormularioPassword_YaActivado con contraseña ya establecida el
// formulario retorna AlreadyActivated para que el handler redirija.
func TestFormularioPassword_YaActivado(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockSesiones.On("Obtener", mock.Anything, "token-opaco").
		Return(sesion.Marcador{Correo: "ana.perez@example.com", RegistroCompleto: true}, nil)
	mockRepo.On("BuscarPorCorreo", mock.Anything, "ana.perez@example.com").
		Return(domain.Aprendiz{ID: 42, PasswordHash: "$2a$10$hash"}, nil)

	_, err := svc.FormularioPassword(context.Background(), "token-opaco")

	var yaActivado *apperror.AlreadyActivatedError
	assert.ErrorAs(t, err, &yaActivado)
}

// TestCrearPassword_Exito la contraseña se almacena como hash bcrypt
// verificable y el marcador de sesión se descarta.
func TestCrearPassword_Exito(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("BuscarPorCorreo", mock.Anything, "ana.perez@example.com").
		Return(domain.Aprendiz{ID: 42, CorreoElectronico: "ana.perez@example.com"}, nil)

	mockRepo.On("ActualizarPassword", mock.Anything, "ana.perez@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("Secreta123")) == nil
	})).Return(nil)

	mockSesiones.On("Eliminar", mock.Anything, "token-opaco").Return(nil)

	err := svc.CrearPassword(context.Background(), "ana.perez@example.com", "Secreta123", "token-opaco")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockSesiones.AssertExpectations(t)
}

// TestCrearPassword_Fail_YaActivado una segunda activación nunca
// sobrescribe el hash existente.
func TestCrearPassword_Fail_YaActivado(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("BuscarPorCorreo", mock.Anything, "ana.perez@example.com").
		Return(domain.Aprendiz{ID: 42, PasswordHash: "$2a$10$hash"}, nil)

	err := svc.CrearPassword(context.Background(), "ana.perez@example.com", "Secreta123", "token-opaco")

	var yaActivado *apperror.AlreadyActivatedError
	assert.ErrorAs(t, err, &yaActivado)
	mockRepo.AssertNotCalled(t, "ActualizarPassword", mock.Anything, mock.Anything, mock.Anything)
}

// TestCrearPassword_Fail_CamposFaltantes correo o contraseña vacíos se
// rechazan antes de tocar el repositorio.
func TestCrearPassword_Fail_CamposFaltantes(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	err := svc.CrearPassword(context.Background(), "", "Secreta123", "")

	var validacionErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validacionErr)
	mockRepo.AssertNotCalled(t, "BuscarPorCorreo", mock.Anything, mock.Anything)
}

// TestVer_FechasEnFormatoVista el detalle entrega las fechas en DD/MM/YYYY.
func TestVer_FechasEnFormatoVista(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("BuscarPorID", mock.Anything, int64(42)).Return(domain.Aprendiz{
		ID:              42,
		FechaNacimiento: "2000-05-15",
		FechaFinLectiva: "2024-07-15",
	}, nil)

	aprendiz, err := svc.Ver(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, "15/05/2000", aprendiz.FechaNacimiento)
	assert.Equal(t, "15/07/2024", aprendiz.FechaFinLectiva)
	assert.Equal(t, "", aprendiz.FechaInicioProductiva)
}

// TestActualizar_Exito los campos en blanco se descartan y solo los datos
// presentes llegan al repositorio.
func TestActualizar_Exito(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("Actualizar", mock.Anything, int64(42), map[string]string{
		"celular":                 "3009876543",
		"alternativaSeleccionada": "vinculoLaboral",
	}).Return(nil)

	err := svc.Actualizar(context.Background(), 42, map[string]string{
		"celular":                 "3009876543",
		"alternativaSeleccionada": "vinculo",
		"barrio":                  "",
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestActualizar_Fail_SinDatos un payload que queda vacío tras la limpieza
// no toca el repositorio.
func TestActualizar_Fail_SinDatos(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	err := svc.Actualizar(context.Background(), 42, map[string]string{"barrio": "", "celular": "  "})

	var sinDatos *apperror.NothingToUpdateError
	assert.ErrorAs(t, err, &sinDatos)
	mockRepo.AssertNotCalled(t, "Actualizar", mock.Anything, mock.Anything, mock.Anything)
}

// TestActualizar_Fail_CampoInvalido un campo suministrado con valor inválido
// se rechaza en modo parcial.
func TestActualizar_Fail_CampoInvalido(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	err := svc.Actualizar(context.Background(), 42, map[string]string{"celular": "123"})

	var validacionErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validacionErr)
	mockRepo.AssertNotCalled(t, "Actualizar", mock.Anything, mock.Anything, mock.Anything)
}

// TestEliminar_Fail_NoEncontrado el error del repositorio se propaga.
func TestEliminar_Fail_NoEncontrado(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("Eliminar", mock.Anything, int64(99)).
		Return(apperror.NewNotFoundError("Aprendiz no encontrado"))

	err := svc.Eliminar(context.Background(), 99)

	var noEncontrado *apperror.NotFoundError
	assert.ErrorAs(t, err, &noEncontrado)
}

// TestListar_Paginacion el total de páginas redondea hacia arriba y la
// página se pasa tal cual al repositorio.
func TestListar_Paginacion(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("Listar", mock.Anything, 3, 50).Return([]domain.Aprendiz{
		{ID: 101, FechaNacimiento: "2000-05-15"},
	}, 120, nil)
	mockRepo.On("ProgramasDistintos", mock.Anything).Return([]string{"tecnoActividadFisica"}, nil)

	pagina, err := svc.Listar(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, pagina.PaginaActual)
	assert.Equal(t, 3, pagina.TotalPaginas)
	assert.Equal(t, 120, pagina.TotalRegistros)
	assert.Equal(t, 50, pagina.Limite)
	assert.Equal(t, "15/05/2000", pagina.Aprendices[0].FechaNacimiento)
	assert.Equal(t, []string{"tecnoActividadFisica"}, pagina.ProgramasFormacion)
}

// TestListar_PaginaInvalida una página menor que 1 se ajusta a la primera.
func TestListar_PaginaInvalida(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	mockRepo.On("Listar", mock.Anything, 1, 50).Return([]domain.Aprendiz{}, 0, nil)
	mockRepo.On("ProgramasDistintos", mock.Anything).Return([]string{}, nil)

	pagina, err := svc.Listar(context.Background(), -4)

	assert.NoError(t, err)
	assert.Equal(t, 1, pagina.PaginaActual)
	assert.Equal(t, 0, pagina.TotalPaginas)
}

// TestBuscar_CriteriosInvalidos un filtro malformado nunca llega al
// repositorio.
func TestBuscar_CriteriosInvalidos(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	_, err := svc.Buscar(context.Background(), domain.CriteriosBusqueda{Documento: "12AB"})

	var validacionErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validacionErr)
	mockRepo.AssertNotCalled(t, "Buscar", mock.Anything, mock.Anything)
}

// TestBuscar_Exito los criterios pasan tal cual y el resultado se formatea
// para la vista.
func TestBuscar_Exito(t *testing.T) {
	mockRepo := new(MockAprendizRepository)
	mockSesiones := new(MockSesionStore)
	svc := nuevoServicio(mockRepo, mockSesiones)

	criterios := domain.CriteriosBusqueda{Nombre: "Pérez", ProgramaFormacion: "tecnoActividadFisica"}
	mockRepo.On("Buscar", mock.Anything, criterios).Return([]domain.Aprendiz{
		{ID: 42, FechaNacimiento: "2000-05-15"},
	}, nil)

	aprendices, err := svc.Buscar(context.Background(), criterios)

	assert.NoError(t, err)
	assert.Len(t, aprendices, 1)
	assert.Equal(t, "15/05/2000", aprendices[0].FechaNacimiento)
	mockRepo.AssertExpectations(t)
}
