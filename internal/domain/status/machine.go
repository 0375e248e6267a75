// Package status valida transiciones de estado con grafos estáticos por tipo de entidad.
// Los validadores son puros: no mutan entidades ni tienen efectos secundarios.
package status

import (
	"sort"

	"github.com/jhoicas/Gestion-api/internal/domain"
)

// Machine es un grafo dirigido de transiciones permitidas para un enum de estados.
type Machine[S ~string] struct {
	entity string
	edges  map[S]map[S]struct{}
}

// NewMachine construye la máquina. Todo estado debe aparecer como clave de edges,
// aunque no tenga salidas (estado terminal).
func NewMachine[S ~string](entity string, edges map[S][]S) *Machine[S] {
	m := &Machine[S]{entity: entity, edges: make(map[S]map[S]struct{}, len(edges))}
	for from, tos := range edges {
		set := make(map[S]struct{}, len(tos))
		for _, to := range tos {
			set[to] = struct{}{}
		}
		m.edges[from] = set
	}
	return m
}

// Entity devuelve el nombre de la entidad que valida esta máquina.
func (m *Machine[S]) Entity() string { return m.entity }

// Valid informa si s pertenece al enum de la entidad.
func (m *Machine[S]) Valid(s S) bool {
	_, ok := m.edges[s]
	return ok
}

// Terminal informa si s no tiene transiciones de salida.
func (m *Machine[S]) Terminal(s S) bool {
	next, ok := m.edges[s]
	return ok && len(next) == 0
}

// Allowed devuelve los estados alcanzables desde current, ordenados.
func (m *Machine[S]) Allowed(current S) []S {
	next := m.edges[current]
	out := make([]S, 0, len(next))
	for s := range next {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Transition valida current → next. Las auto-transiciones (current == next) se rechazan.
func (m *Machine[S]) Transition(current, next S) error {
	if _, ok := m.edges[current][next]; ok {
		return nil
	}
	return &domain.InvalidTransitionError{Entity: m.entity, From: string(current), To: string(next)}
}
