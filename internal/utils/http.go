package utils

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// PathParam returns the named route parameter, already unescaped by the
// router. Identity keys keep their pipes and spaces.
func PathParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
