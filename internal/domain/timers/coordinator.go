package timers

// Offer es un timer candidato que el coordinador sugiere tras completar
// una tarea. El core nunca lo setea solo: la capa de presentación lo
// ofrece y, si el humano acepta, recién ahí llama a Set.
type Offer struct {
	Hours float64
	Label string
}

const (
	// Tras una comida: ventana de estómago vacío antes del gated task.
	emptyStomachHours = 2
	emptyStomachLabel = "Empty stomach"

	// Tras el gated task: espera mínima hasta la próxima comida.
	nextMealHours = 1
	nextMealLabel = "Next meal ready"
)

// Coordinator decide si una tarea recién completada amerita ofrecer un
// timer dependiente. Es una función pura de (nombre de tarea, snapshot
// de status): no sabe nada de storage ni de entradas del log.
type Coordinator struct {
	// Meals son los nombres de las comidas que disparan la ventana de
	// estómago vacío.
	Meals []string
	// GatedTask es la tarea que depende del estómago vacío.
	GatedTask string
}

func NewCoordinator(meals []string, gatedTask string) *Coordinator {
	if len(meals) == 0 {
		meals = []string{"Breakfast", "Dinner"}
	}
	if gatedTask == "" {
		gatedTask = "Denamarin"
	}
	return &Coordinator{Meals: meals, GatedTask: gatedTask}
}

// Decide devuelve la oferta para la tarea completada, o nil si no
// corresponde ninguna. done mapea nombre de tarea -> completada hoy.
func (c *Coordinator) Decide(completedTask string, done map[string]bool) *Offer {
	if c.isMeal(completedTask) {
		// Si el gated task ya se dio, la ventana de estómago vacío no
		// aporta nada.
		if done[c.GatedTask] {
			return nil
		}
		return &Offer{Hours: emptyStomachHours, Label: emptyStomachLabel}
	}

	if completedTask == c.GatedTask {
		// Si ya no quedan comidas por dar hoy, no hay próxima comida
		// que esperar.
		if c.allMealsDone(done) {
			return nil
		}
		return &Offer{Hours: nextMealHours, Label: nextMealLabel}
	}

	return nil
}

func (c *Coordinator) isMeal(name string) bool {
	for _, m := range c.Meals {
		if m == name {
			return true
		}
	}
	return false
}

func (c *Coordinator) allMealsDone(done map[string]bool) bool {
	for _, m := range c.Meals {
		if !done[m] {
			return false
		}
	}
	return true
}
