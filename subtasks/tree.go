package subtasks

import "goal-planner/planner-service/models"

// Operacije nad stablom podzadataka. Sve funkcije su čiste: ulazno stablo se
// nikad ne menja, kopira se samo putanja do pogođenog čvora, a braća van
// putanje se dele sa ulazom. Pretraga po id-u ide pre-order, prvi pogodak
// pobeđuje (id je jedinstven na nivou stabla, kolizije se ne detektuju).

// Flatten vraća čvorove u depth-first pre-order redosledu: roditelj pre dece,
// braća po redosledu u nizu. Ovo je kanonična enumeracija za brojanje.
func Flatten(tree []models.SubtaskNode) []models.SubtaskNode {
	var out []models.SubtaskNode
	var walk func(nodes []models.SubtaskNode)
	walk = func(nodes []models.SubtaskNode) {
		for _, n := range nodes {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(tree)
	return out
}

// CountTotal broji sve čvorove u stablu.
func CountTotal(tree []models.SubtaskNode) int {
	return len(Flatten(tree))
}

// CountCompleted broji čvorove sa completed = true.
func CountCompleted(tree []models.SubtaskNode) int {
	count := 0
	for _, n := range Flatten(tree) {
		if n.Completed {
			count++
		}
	}
	return count
}

// AddChild dodaje newNode kao poslednje dete prvog čvora (pre-order) čiji je
// id jednak parentID. Ako roditelj ne postoji, vraća ulazno stablo
// nepromenjeno.
func AddChild(tree []models.SubtaskNode, parentID string, newNode models.SubtaskNode) []models.SubtaskNode {
	out, _ := addChild(tree, parentID, newNode)
	return out
}

func addChild(nodes []models.SubtaskNode, parentID string, newNode models.SubtaskNode) ([]models.SubtaskNode, bool) {
	for i, n := range nodes {
		if n.ID == parentID {
			updated := n
			updated.Children = append(append([]models.SubtaskNode{}, n.Children...), newNode)
			return replaceAt(nodes, i, updated), true
		}
		if children, ok := addChild(n.Children, parentID, newNode); ok {
			updated := n
			updated.Children = children
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

// RemoveByID uklanja prvi čvor (pre-order) sa datim id-om zajedno sa celim
// njegovim podstablom. Nepostojeći id je no-op.
func RemoveByID(tree []models.SubtaskNode, id string) []models.SubtaskNode {
	out, _ := removeByID(tree, id)
	return out
}

func removeByID(nodes []models.SubtaskNode, id string) ([]models.SubtaskNode, bool) {
	for i, n := range nodes {
		if n.ID == id {
			out := append([]models.SubtaskNode{}, nodes[:i]...)
			return append(out, nodes[i+1:]...), true
		}
		if children, ok := removeByID(n.Children, id); ok {
			updated := n
			updated.Children = children
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

// ToggleByID invertuje completed na prvom čvoru (pre-order) sa datim id-om.
// Ne kaskadira ni ka deci ni ka precima. Nepostojeći id je no-op.
func ToggleByID(tree []models.SubtaskNode, id string) []models.SubtaskNode {
	out, _ := toggleByID(tree, id)
	return out
}

func toggleByID(nodes []models.SubtaskNode, id string) ([]models.SubtaskNode, bool) {
	for i, n := range nodes {
		if n.ID == id {
			updated := n
			updated.Completed = !n.Completed
			return replaceAt(nodes, i, updated), true
		}
		if children, ok := toggleByID(n.Children, id); ok {
			updated := n
			updated.Children = children
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

// FindByID vraća prvi čvor (pre-order) sa datim id-om.
func FindByID(tree []models.SubtaskNode, id string) (models.SubtaskNode, bool) {
	for _, n := range Flatten(tree) {
		if n.ID == id {
			return n, true
		}
	}
	return models.SubtaskNode{}, false
}

// replaceAt vraća novi slice sa zamenjenim elementom na poziciji i.
func replaceAt(nodes []models.SubtaskNode, i int, updated models.SubtaskNode) []models.SubtaskNode {
	out := append([]models.SubtaskNode{}, nodes...)
	out[i] = updated
	return out
}
