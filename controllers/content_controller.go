package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mutanteweb/backend/database"
	"mutanteweb/backend/models"
)

// Plan is a pricing tier shown on the site.
type Plan struct {
	Name          string   `json:"name"`
	Subtitle      string   `json:"subtitle"`
	Price         int      `json:"price"`
	Monthly       int      `json:"monthly"`
	PreorderPrice int      `json:"preorder_price"`
	Features      []string `json:"features"`
	Recommended   bool     `json:"recommended,omitempty"`
}

// Testimonial is one success case shown on the site.
type Testimonial struct {
	Name     string `json:"name"`
	Business string `json:"business"`
	Avatar   string `json:"avatar"`
	Text     string `json:"text"`
}

var plans = []Plan{
	{
		Name:          "Starter",
		Subtitle:      "Digitalización Básica",
		Price:         80000,
		Monthly:       15000,
		PreorderPrice: 64000,
		Features: []string{
			"Sitio web optimizado (5 páginas)",
			"Dashboard básico de análisis",
			"SEO local optimizado",
			"Bot analista básico",
			"Soporte técnico por 6 meses",
		},
	},
	{
		Name:          "Growth",
		Subtitle:      "Inteligencia Aplicada",
		Price:         350000,
		Monthly:       25000,
		PreorderPrice: 280000,
		Features: []string{
			"Todo lo del plan Starter",
			"Bot analista IA avanzado",
			"Herramientas de análisis completo",
			"Integración con redes sociales",
			"Generador de contenido básico",
			"Soporte premium por 12 meses",
		},
		Recommended: true,
	},
	{
		Name:          "Enterprise +Plus",
		Subtitle:      "Asistente de Creación de Contenido Avanzado",
		Price:         650000,
		Monthly:       45000,
		PreorderPrice: 520000,
		Features: []string{
			"Todo lo del plan Growth",
			"E-commerce completo integrado",
			"Generador automático de contenido",
			"Soporte dedicado por 24 meses",
		},
	},
}

var testimonials = []Testimonial{
	{
		Name:     "Miguel Rodríguez",
		Business: "Autopartes Rodríguez - Campana",
		Avatar:   "MR",
		Text:     "El bot analista me ayudó a identificar que mis clientes buscaban repuestos específicos los fines de semana. Ajusté mi inventario y las ventas aumentaron 340% en 2 meses.",
	},
	{
		Name:     "Laura Castro",
		Business: "Boutique Trendy - Zárate",
		Avatar:   "LC",
		Text:     "El generador de contenido automático me ahorra 15 horas semanales. Ahora tengo posts consistentes y mi engagement en Instagram creció 280%. Es como tener un community manager 24/7.",
	},
	{
		Name:     "Diego Fernández",
		Business: "TechFix - Escobar",
		Avatar:   "DF",
		Text:     "Como técnico, entiendo de tecnología, pero Mutante.web llevó mi negocio al siguiente nivel. El dashboard me muestra exactamente qué servicios demanda más mi zona. ROI del 450%.",
	},
}

// Plans serves the pricing tiers.
func Plans() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"plans": plans})
	}
}

// Testimonials serves the success cases.
func Testimonials() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
	}
}

// Contact stores a contact-form submission.
func Contact(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nombre, email y mensaje son obligatorios"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := store.SaveContactMessage(ctx, req); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Newsletter subscribes an email address.
func Newsletter(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewsletterRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email inválido"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := store.SubscribeNewsletter(ctx, req.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
