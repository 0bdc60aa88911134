package api

import (
	"encoding/json"
	"net/http"

	"github.com/abhisek/mathpop/internal/expr"
	"github.com/abhisek/mathpop/internal/ui/components"
)

type expressionRequest struct {
	Expression string `json:"expression"`
}

type tokenView struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Pos  int    `json:"pos"`
}

type expressionResponse struct {
	Tokens    []tokenView `json:"tokens"`
	Tree      []expr.Node `json:"tree,omitempty"`
	Canonical string      `json:"canonical,omitempty"`
	Answer    *float64    `json:"answer,omitempty"`
	Rendered  string      `json:"rendered,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// handleExpression runs a string through the whole pipeline. Parse and
// evaluation failures are reported in the body with status 422.
func (s *Server) handleExpression(w http.ResponseWriter, r *http.Request) {
	var req expressionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Expression == "" {
		respondError(w, http.StatusBadRequest, "expression is required")
		return
	}

	resp := expressionResponse{Tokens: []tokenView{}}
	for _, t := range expr.Tokenize(req.Expression) {
		resp.Tokens = append(resp.Tokens, tokenView{Kind: t.Kind.String(), Text: t.Text, Pos: t.Pos})
	}

	tree, err := expr.Parse(req.Expression)
	if err != nil {
		resp.Error = err.Error()
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	resp.Tree = tree
	resp.Canonical = expr.Format(tree)
	resp.Rendered = components.RenderExpression(tree)

	v, err := expr.Evaluate(tree)
	if err != nil {
		s.logger.Debug("expression did not evaluate", "expression", req.Expression, "error", err)
		resp.Error = err.Error()
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	v = expr.Round2(v)
	resp.Answer = &v
	respondJSON(w, http.StatusOK, resp)
}
