package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const actorKey ctxKey = "actor"

// ActorContext lee el header X-Actor-Name y lo deja en el contexto.
// No hay auth real: el modelo de confianza es el hogar. Si no viene
// header, el request sigue igual; los handlers aceptan también el campo
// completed_by en el body (y ese gana si vienen ambos).
func ActorContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if name := strings.TrimSpace(r.Header.Get("X-Actor-Name")); name != "" {
				ctx := context.WithValue(r.Context(), actorKey, name)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetActor(ctx context.Context) (string, bool) {
	v := ctx.Value(actorKey)
	if v == nil {
		return "", false
	}
	name, ok := v.(string)
	return name, ok && name != ""
}
