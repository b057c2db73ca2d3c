package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

// Categories a business can register under. Fixed set, "Otro" last.
var Categories = []string{
	"Restaurante/Gastronomía",
	"Tienda de Ropa/Moda",
	"Ferretería/Construcción",
	"Farmacia/Salud",
	"Tecnología/Electrónicos",
	"Belleza/Estética",
	"Autopartes/Automotor",
	"Supermercado/Almacén",
	"Servicios Profesionales",
	"Otro",
}

// Objectives a business can pick as its primary goal.
var Objectives = []string{
	"Aumentar ventas online",
	"Mejorar presencia en redes sociales",
	"Automatizar procesos",
	"Analizar competencia",
	"Generar más leads",
	"Optimizar horarios de atención",
	"Crear contenido automático",
	"Mejorar atención al cliente",
}

// EmployeeBuckets and SalesBuckets are the enumerated ranges offered on
// step 2; BudgetBuckets the marketing budget ranges on step 3.
var (
	EmployeeBuckets = []string{"1", "2-5", "6-10", "11-20", "20+"}
	SalesBuckets    = []string{"0-100k", "100k-500k", "500k-1M", "1M-5M", "5M+"}
	BudgetBuckets   = []string{"0-10k", "10k-25k", "25k-50k", "50k-100k", "100k+"}
)

// Weekdays in display order, Monday first. Toggling is order-free; this
// slice fixes how an active set is rendered.
var Weekdays = []string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}

// Basics is step 1 of the wizard: identity of the business.
type Basics struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Website  string `json:"website"`
}

// Operations is step 2: schedule and scale.
type Operations struct {
	OpensAt        string   `json:"opens_at"`
	ClosesAt       string   `json:"closes_at"`
	Days           []string `json:"days"`
	EmployeeBucket string   `json:"employee_bucket"`
	SalesBucket    string   `json:"sales_bucket"`
	DailyCustomers int      `json:"daily_customers"`
}

// Digital is step 3: social handles and goals.
type Digital struct {
	Instagram    string `json:"instagram"`
	Facebook     string `json:"facebook"`
	WhatsApp     string `json:"whatsapp"`
	Objective    string `json:"objective"`
	BudgetBucket string `json:"budget_bucket"`
}

// Draft accumulates the business record across the four wizard steps. It has
// no identity until the create call succeeds; cancel or logout discards it.
type Draft struct {
	Basics     Basics     `json:"basics"`
	Operations Operations `json:"operations"`
	Digital    Digital    `json:"digital"`
}

var ErrMissingFields = errors.New("required fields missing")

func missing(step int, fields ...string) error {
	return fmt.Errorf("%w: paso %d: %s", ErrMissingFields, step, strings.Join(fields, ", "))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ValidateBasics enforces step 1's required fields.
func (d *Draft) ValidateBasics() error {
	var m []string
	if blank(d.Basics.Name) {
		m = append(m, "nombre")
	}
	if blank(d.Basics.Category) {
		m = append(m, "rubro")
	}
	if blank(d.Basics.Address) {
		m = append(m, "dirección")
	}
	if blank(d.Basics.Phone) {
		m = append(m, "teléfono")
	}
	if len(m) > 0 {
		return missing(1, m...)
	}
	return nil
}

// ValidateOperations enforces step 2's required fields. Daily customers is
// optional but never negative.
func (d *Draft) ValidateOperations() error {
	var m []string
	if blank(d.Operations.OpensAt) {
		m = append(m, "horario de apertura")
	}
	if blank(d.Operations.ClosesAt) {
		m = append(m, "horario de cierre")
	}
	if blank(d.Operations.EmployeeBucket) {
		m = append(m, "cantidad de empleados")
	}
	if blank(d.Operations.SalesBucket) {
		m = append(m, "ventas promedio")
	}
	if d.Operations.DailyCustomers < 0 {
		m = append(m, "clientes promedio")
	}
	if len(m) > 0 {
		return missing(2, m...)
	}
	return nil
}

// ValidateDigital enforces step 3's required fields; handles are optional.
func (d *Draft) ValidateDigital() error {
	var m []string
	if blank(d.Digital.Objective) {
		m = append(m, "objetivo principal")
	}
	if blank(d.Digital.BudgetBucket) {
		m = append(m, "presupuesto de marketing")
	}
	if len(m) > 0 {
		return missing(3, m...)
	}
	return nil
}

// Validate checks every step, used before the final create call so a field
// blanked after going back cannot slip through.
func (d *Draft) Validate() error {
	if err := d.ValidateBasics(); err != nil {
		return err
	}
	if err := d.ValidateOperations(); err != nil {
		return err
	}
	return d.ValidateDigital()
}

// HasDay reports whether day is in the active set.
func (d *Draft) HasDay(day string) bool {
	for _, x := range d.Operations.Days {
		if x == day {
			return true
		}
	}
	return false
}

// ToggleDay adds day to the active set if absent, removes it if present.
func (d *Draft) ToggleDay(day string) {
	days := d.Operations.Days
	for i, x := range days {
		if x == day {
			d.Operations.Days = append(days[:i], days[i+1:]...)
			return
		}
	}
	d.Operations.Days = append(days, day)
}

// DisplayDays returns the active set in fixed Monday→Sunday order.
func (d *Draft) DisplayDays() []string {
	out := make([]string, 0, len(d.Operations.Days))
	for _, day := range Weekdays {
		if d.HasDay(day) {
			out = append(out, day)
		}
	}
	return out
}
