package animals

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"pet-adoption-catalog/internal/platform/logger"
	"pet-adoption-catalog/internal/platform/pagination"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type RouteOptions struct {
	PageSize      int
	FeaturedCount int

	// MaxSample acota ?count= en /random-animals.
	MaxSample int

	Logger logger.Logger
}

func (o RouteOptions) withDefaults() RouteOptions {
	if o.PageSize <= 0 {
		o.PageSize = 12
	}
	if o.FeaturedCount <= 0 {
		o.FeaturedCount = DefaultSampleSize
	}
	if o.MaxSample <= 0 {
		o.MaxSample = 50
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

func RegisterRoutes(r chi.Router, svc *Service, opts RouteOptions) {
	opts = opts.withDefaults()
	log := opts.Logger

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/animals", listAnimalsHandler(svc, log))
		ar.Get("/animals/pages", pagedAnimalsHandler(svc, opts.PageSize, log))
		ar.Post("/animals", createAnimalHandler(svc, log))
		ar.Post("/animals/validate", validateAnimalHandler())
		ar.Get("/animals/{animalID}", getAnimalHandler(svc, log))

		ar.Get("/search", searchHandler(svc, log))
		ar.Get("/random-animals", randomAnimalsHandler(svc, opts.MaxSample, log))
		ar.Get("/featured", featuredHandler(svc, opts.FeaturedCount, log))
	})
}

type animalResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	Excerpt     string `json:"excerpt"`
	OwnerEmail  string `json:"owner_email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	DateAdded   string `json:"date_added"`
}

type pageResponse struct {
	Animals    []animalResponse `json:"animals"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

type searchResponse struct {
	Results []animalResponse `json:"results"`
	Count   int              `json:"count"`
	Query   string           `json:"query"`
}

type createResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	AnimalID string      `json:"animal_id,omitempty"`
	Errors   FieldErrors `json:"errors,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type validateResponse struct {
	Valid  bool        `json:"valid"`
	Errors FieldErrors `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Description Devuelve todos los animales en orden de alta.
// @Tags animals
// @Produce json
// @Success 200 {array} animalResponse
// @Failure 500 {object} errorResponse
// @Router /api/animals [get]
func listAnimalsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			storeFailure(w, log, "list animals", err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

// pagedAnimalsHandler godoc
// @Summary Listar animales por página
// @Description Página fuera de rango devuelve una lista vacía; page inválido cuenta como 1.
// @Tags animals
// @Produce json
// @Param page query int false "Número de página (desde 1)"
// @Success 200 {object} pageResponse
// @Failure 500 {object} errorResponse
// @Router /api/animals/pages [get]
func pagedAnimalsHandler(svc *Service, pageSize int, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := intQuery(r, "page", 1)

		items, err := svc.ListAll(r.Context())
		if err != nil {
			storeFailure(w, log, "list animals page", err)
			return
		}

		slice, totalPages := pagination.Paginate(items, page, pageSize)
		writeJSON(w, http.StatusOK, pageResponse{
			Animals:    toAnimalResponses(slice),
			Page:       page,
			TotalPages: totalPages,
			Total:      len(items),
		})
	}
}

// getAnimalHandler godoc
// @Summary Detalle de un animal
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/animals/{animalID} [get]
func getAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "animalID")

		a, err := svc.GetByID(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Animal non trouvé"})
			return
		}
		if err != nil {
			storeFailure(w, log, "get animal", err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// createAnimalHandler godoc
// @Summary Publicar un animal en adopción
// @Description Acepta JSON o formulario. Todos los campos se validan por separado; los errores vienen por campo.
// @Tags animals
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param payload body Submission true "Datos del animal"
// @Success 201 {object} createResponse
// @Failure 400 {object} createResponse
// @Failure 500 {object} createResponse
// @Router /api/animals [post]
func createAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := readSubmission(w, r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, createResponse{Error: badBodyMessage})
			return
		}

		id, v, err := svc.Create(r.Context(), sub)
		if err != nil {
			log.Error("create animal failed", map[string]any{"error": err})
			writeJSON(w, http.StatusInternalServerError, createResponse{Error: "Erreur de base de données"})
			return
		}
		if !v.OK() {
			writeJSON(w, http.StatusBadRequest, createResponse{Errors: v.Errors})
			return
		}

		log.Info("animal created", map[string]any{"animal_id": id})
		writeJSON(w, http.StatusCreated, createResponse{
			Success:  true,
			Message:  "Animal ajouté avec succès",
			AnimalID: id,
		})
	}
}

// validateAnimalHandler godoc
// @Summary Validar un formulario sin guardarlo
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body Submission true "Datos del animal"
// @Success 200 {object} validateResponse
// @Failure 400 {object} createResponse
// @Router /api/animals/validate [post]
func validateAnimalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := readSubmission(w, r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, createResponse{Error: badBodyMessage})
			return
		}

		v := Validate(sub)
		errs := v.Errors
		if errs == nil {
			errs = FieldErrors{}
		}
		writeJSON(w, http.StatusOK, validateResponse{Valid: v.OK(), Errors: errs})
	}
}

// searchHandler godoc
// @Summary Buscar animales
// @Description Coincidencia parcial sin distinguir mayúsculas en nombre, especie, raza, descripción y ciudad. q vacío devuelve todo.
// @Tags animals
// @Produce json
// @Param q query string false "Texto a buscar"
// @Success 200 {object} searchResponse
// @Failure 500 {object} errorResponse
// @Router /api/search [get]
func searchHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))

		items, err := svc.Search(r.Context(), q)
		if err != nil {
			storeFailure(w, log, "search", err)
			return
		}
		writeJSON(w, http.StatusOK, searchResponse{
			Results: toAnimalResponses(items),
			Count:   len(items),
			Query:   q,
		})
	}
}

// randomAnimalsHandler godoc
// @Summary Muestra aleatoria de animales
// @Description Sin repetidos. count inválido cuenta como 5.
// @Tags animals
// @Produce json
// @Param count query int false "Cantidad (por defecto 5)"
// @Success 200 {array} animalResponse
// @Failure 500 {object} errorResponse
// @Router /api/random-animals [get]
func randomAnimalsHandler(svc *Service, maxSample int, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := intQuery(r, "count", DefaultSampleSize)
		if count > maxSample {
			count = maxSample
		}

		items, err := svc.Sample(r.Context(), count)
		if err != nil {
			storeFailure(w, log, "random animals", err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

// featuredHandler godoc
// @Summary Animales destacados de la portada
// @Tags animals
// @Produce json
// @Success 200 {array} animalResponse
// @Failure 500 {object} errorResponse
// @Router /api/featured [get]
func featuredHandler(svc *Service, count int, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Sample(r.Context(), count)
		if err != nil {
			storeFailure(w, log, "featured", err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

const badBodyMessage = "Corps de requête invalide"

// readSubmission acepta JSON o formulario (urlencoded / multipart).
// false = body ilegible.
func readSubmission(w http.ResponseWriter, r *http.Request) (Submission, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	in := map[string]any{}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if ct == "multipart/form-data" {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return Submission{}, false
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				in[k] = vs[0]
			}
		}

	default:
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&in); err != nil {
			return Submission{}, false
		}
	}

	sub, err := DecodeSubmission(in)
	if err != nil {
		return Submission{}, false
	}
	return sub, true
}

func intQuery(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func storeFailure(w http.ResponseWriter, log logger.Logger, op string, err error) {
	log.Error(op+" failed", map[string]any{"error": err})
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Erreur de base de données"})
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		Name:        a.Name,
		Species:     a.Species,
		Breed:       a.Breed,
		Age:         a.Age,
		Description: a.Description,
		Excerpt:     Excerpt(a.Description, ExcerptWords),
		OwnerEmail:  a.OwnerEmail,
		Address:     a.Address,
		City:        a.City,
		PostalCode:  a.PostalCode,
		DateAdded:   a.DateAdded,
	}
}

func toAnimalResponses(items []Animal) []animalResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
