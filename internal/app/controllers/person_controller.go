package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/app/models/dto"
	"github.com/yigit/persondata/internal/app/services"
	"github.com/yigit/persondata/internal/middleware"
)

// PersonController serves person and adviser aggregates
type PersonController struct {
	personService *services.PersonService
}

// NewPersonController creates a new PersonController
func NewPersonController(personService *services.PersonService) *PersonController {
	return &PersonController{personService: personService}
}

type resolveFunc func(ctx context.Context, id string, opts models.Options) (*models.Person, error)

// resolve binds the include flags, runs fn on the path parameter and writes
// the flattened aggregate.
func (c *PersonController) resolve(ctx *gin.Context, param string, fn resolveFunc) {
	var query dto.IncludeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid include flags").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	person, err := fn(ctx.Request.Context(), ctx.Param(param), query.Options())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(person.Flatten()))
}

// GetByLogin resolves by current or prior login.
// GET /api/v1/persons/login/:login?employee&student&transcripts&transfers&holds&degrees
func (c *PersonController) GetByLogin(ctx *gin.Context) {
	c.resolve(ctx, "login", c.personService.ResolveByLogin)
}

// GetByRegistryID resolves by current or prior registry id.
// GET /api/v1/persons/regid/:regid
func (c *PersonController) GetByRegistryID(ctx *gin.Context) {
	c.resolve(ctx, "regid", c.personService.ResolveByRegistryID)
}

// GetBySystemKey resolves through the student row.
// GET /api/v1/persons/systemkey/:key
func (c *PersonController) GetBySystemKey(ctx *gin.Context) {
	c.resolve(ctx, "key", c.personService.ResolveBySystemKey)
}

// GetByStudentNumber resolves through the student row.
// GET /api/v1/persons/studentnumber/:number
func (c *PersonController) GetByStudentNumber(ctx *gin.Context) {
	c.resolve(ctx, "number", c.personService.ResolveByStudentNumber)
}

type listFunc func(ctx context.Context, opts models.Options) ([]*models.Person, error)

func (c *PersonController) list(ctx *gin.Context, fn listFunc) {
	var query dto.IncludeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid include flags").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	persons, err := fn(ctx.Request.Context(), query.Options())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]interface{}, 0, len(persons))
	for _, p := range persons {
		items = append(items, p.Flatten())
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListData{Count: len(items), Items: items}))
}

// ListActiveStudents lists persons flagged as active students.
// GET /api/v1/persons/active-students
func (c *PersonController) ListActiveStudents(ctx *gin.Context) {
	c.list(ctx, c.personService.ListActiveStudents)
}

// ListActiveEmployees lists persons flagged as active employees.
// GET /api/v1/persons/active-employees
func (c *PersonController) ListActiveEmployees(ctx *gin.Context) {
	c.list(ctx, c.personService.ListActiveEmployees)
}

// GetAdviser resolves the adviser record reachable from a login.
// GET /api/v1/advisers/:login
func (c *PersonController) GetAdviser(ctx *gin.Context) {
	adviser, err := c.personService.ResolveAdviserByLogin(ctx.Request.Context(), ctx.Param("login"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(adviser.Flatten()))
}
