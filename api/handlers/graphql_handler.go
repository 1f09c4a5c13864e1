package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/api/middleware"
	appgraphql "github.com/Elie-50/allo-gaz-lebanon/internal/graphql"

	"github.com/gin-gonic/gin"
	gql "github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"
)

// GraphQLHandler serves the read-only query endpoint
type GraphQLHandler struct {
	schema gql.Schema
	log    *logrus.Logger
}

// NewGraphQLHandler creates a new GraphQLHandler instance
func NewGraphQLHandler(schema gql.Schema, log *logrus.Logger) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, log: log}
}

type graphqlRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Query executes a GraphQL query. The authenticated user, when present, is
// handed to the resolvers; unauthenticated queries fail per field.
func (h *GraphQLHandler) Query(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query format"})
		return
	}

	ctx := c.Request.Context()
	if user, err := middleware.GetUserFromContext(c); err == nil {
		ctx = appgraphql.WithUser(ctx, user)
	}

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	if len(result.Errors) > 0 {
		h.log.WithField("errors", result.Errors).Warn("GraphQL query failed")
	}
	c.JSON(http.StatusOK, result)
}
