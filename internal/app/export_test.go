package app

func (g *Game) SetInfection(playerID string, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, err := g.store.Get(playerID); err == nil {
		p.InfectionLevel = v
	}
}

func (g *Game) SetScore(playerID string, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, err := g.store.Get(playerID); err == nil {
		p.Score = v
	}
}

func (g *Game) EndLevel1() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.endLevel1Locked()
}

func (g *Game) Eliminate(playerID, reason string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.store.Get(playerID)
	if err != nil {
		return false
	}
	return g.eliminateLocked(p, reason)
}

func (g *Game) PendingTimers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timers.pending()
}
