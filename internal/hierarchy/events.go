package hierarchy

type eventKind int

const (
	eventRenamed eventKind = iota
	eventMoved
	eventRemoved
)

type event struct {
	kind      eventKind
	id        string
	oldName   string
	newName   string
	oldParent *string
	newParent *string
	ids       []string
}

// notify runs without the lock held, so observers may read the store
func (s *Store) notify(events []event) {
	for _, e := range events {
		for _, o := range s.observers {
			switch e.kind {
			case eventRenamed:
				o.OnLocationRenamed(e.id, e.oldName, e.newName)
			case eventMoved:
				o.OnLocationMoved(e.id, e.oldParent, e.newParent)
			case eventRemoved:
				o.OnLocationRemoved(e.ids)
			}
		}
	}
}
