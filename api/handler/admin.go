package handler

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api"
	"github.com/moira-alert/mutguard/api/controller"
	"github.com/moira-alert/mutguard/api/dto"
	"github.com/moira-alert/mutguard/api/middleware"
)

func admin(router chi.Router, source mutguard.PolicySource) {
	router.Get("/health", getHealth)
	router.Get("/state", getMutationsState(source))
	if _, ok := source.(mutguard.PolicyStateWriter); ok {
		router.Put("/state", setMutationsState(source))
	}
}

func getHealth(writer http.ResponseWriter, request *http.Request) {
	render.Render(writer, request, &dto.Health{Status: "ok"}) //nolint
}

func getMutationsState(source mutguard.PolicySource) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		state, err := controller.GetMutationsState(request.Context(), source)
		if err != nil {
			render.Render(writer, request, err) //nolint
			return
		}

		if err := render.Render(writer, request, state); err != nil {
			render.Render(writer, request, api.ErrorRender(err)) //nolint
			return
		}
	}
}

func setMutationsState(source mutguard.PolicySource) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		update := &dto.MutationsStateUpdate{}
		if err := render.Bind(request, update); err != nil {
			render.Render(writer, request, api.ErrorInvalidRequest(err)) //nolint
			return
		}
		update.Actor = middleware.GetLogin(request)

		if err := controller.UpdateMutationsState(request.Context(), source, update); err != nil {
			render.Render(writer, request, err) //nolint
			return
		}

		middleware.GetLoggerEntry(request).Info().
			Bool(mutguard.LogFieldNamePolicyBlocked, *update.Blocked).
			String(mutguard.LogFieldNamePolicyActor, update.Actor).
			Msg("Mutations state changed")

		getMutationsState(source)(writer, request)
	}
}
