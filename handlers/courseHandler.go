package handlers

import (
	"net/http"

	"smartstudy/catalog"
	"smartstudy/logger"
	"smartstudy/models"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

type CourseHandler struct {
	catalog *catalog.Catalog
	log     *logger.Logger
}

func NewCourseHandler(c *catalog.Catalog, log *logger.Logger) *CourseHandler {
	return &CourseHandler{catalog: c, log: log}
}

func (h *CourseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/courses", requireBearer(h.ListCourses)).Methods("GET")
	router.HandleFunc("/api/courses/{id}", requireBearer(h.GetCourse)).Methods("GET")
	router.HandleFunc("/api/courses/{id}/lectures", requireBearer(h.SearchLectures)).Methods("GET")
}

func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses := lo.Map(h.catalog.Courses, func(c catalog.Course, _ int) models.Course {
		return c.Course
	})
	writeJSONResponse(w, http.StatusOK, models.GenerateResponse{Success: true, Data: courses})
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.catalog.Course(mux.Vars(r)["id"])
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}
	writeJSONResponse(w, http.StatusOK, models.GenerateResponse{Success: true, Data: course.Course})
}

// SearchLectures fuzzy-matches lecture titles; an empty q returns every lecture.
func (h *CourseHandler) SearchLectures(w http.ResponseWriter, r *http.Request) {
	course, ok := h.catalog.Course(mux.Vars(r)["id"])
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	term := r.URL.Query().Get("q")
	lectures := course.Lectures
	if term != "" {
		lectures = course.SearchLectures(term)
	}
	h.log.Debug("Lecture search", "course", course.ID, "term", term, "matches", len(lectures))
	writeJSONResponse(w, http.StatusOK, models.GenerateResponse{Success: true, Data: lectures})
}
