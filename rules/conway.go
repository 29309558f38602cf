package rules

/*
ApplyConwayRules decides the next state of a cell from its current state and
its live neighbor count.

A live cell survives with 2 or 3 neighbors, a dead cell is born with exactly 3:
(alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}
