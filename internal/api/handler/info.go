package handler

import (
	"github.com/naolametric/naolametric/internal/api/models"
)

func apiInfo(version string) models.Info {
	return models.Info{
		Name:        "NaoLaMetric",
		Version:     version,
		Description: "Application LaMetric pour les transports nantais (TAN/Naolib)",
		Endpoints: []models.Endpoint{
			{Path: "/", Method: "GET", Description: "Prochains passages pour LaMetric"},
			{Path: "/stops", Method: "GET", Description: "Recherche d'arrêts"},
			{Path: "/popular-stops", Method: "GET", Description: "Arrêts populaires"},
			{Path: "/health", Method: "GET", Description: "État du serveur"},
			{Path: "/info", Method: "GET", Description: "Documentation API"},
		},
		Parameters: []models.Parameter{
			{Name: "stop", Type: "string", Required: true, Description: "Code arrêt (COMM, GANO...)"},
			{Name: "line", Type: "string", Description: "Filtre ligne (1, 2, C1...)"},
			{Name: "direction", Type: "integer", Description: "Direction (1 ou 2)"},
			{Name: "limit", Type: "integer", Description: "Nombre résultats (1-10). Sur /stops, limit va de 1 à 500 (500 par défaut)."},
			{Name: "show_terminus", Type: "boolean", Description: "Afficher destination"},
		},
		Examples: []models.Example{
			{Description: "Passages Commerce", URL: "/?stop=COMM"},
			{Description: "Ligne 1 direction 1", URL: "/?stop=COMM&line=1&direction=1"},
			{Description: "5 passages + terminus", URL: "/?stop=GANO&limit=5&show_terminus=true"},
			{Description: "Recherche gare", URL: "/stops?search=gare"},
		},
	}
}
