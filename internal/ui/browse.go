package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/api"
	"snug/internal/geo"
	"snug/internal/ui/textutil"
)

// pubItem adapts one pub for the browse list.
type pubItem struct {
	pub        api.Pub
	distanceKM float64
}

func (p pubItem) FilterValue() string { return p.pub.Name }

func (p pubItem) Title() string {
	marks := ""
	if p.pub.Visited {
		marks += Styles.Visited.Render(" ✓")
	}
	if p.pub.Favourite {
		marks += Styles.Favourite.Render(" ★")
	}
	area := p.pub.Area
	if area == "" {
		area = p.pub.Borough
	}
	return fmt.Sprintf("%s%s  %s · %.1fkm",
		textutil.Truncate(p.pub.Name, 36), marks, area, p.distanceKM)
}

func (p pubItem) Description() string { return "" }

// BrowseView lists pubs near the configured home location, nearest first.
// `/` opens an incremental search ranked by substring and edit distance.
type BrowseView struct {
	list    list.Model
	search  textinput.Model
	spinner spinner.Model
	keys    KeyMap

	pubs      []api.Pub // distance-sorted canonical set
	home      geo.Point
	searching bool
	loading   bool
	offline   bool

	width  int
	height int
}

// Ensure BrowseView implements View.
var _ View = (*BrowseView)(nil)

// NewBrowseView creates an empty browse list; pubs arrive via PubsLoadedMsg.
func NewBrowseView(home geo.Point, keys KeyMap) *BrowseView {
	l := list.New(nil, newBrowseDelegate(), 0, 0)
	l.Title = "Pubs nearby"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title

	ti := textinput.New()
	ti.Placeholder = "search pubs"
	ti.Prompt = "/ "
	ti.Width = 32

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	return &BrowseView{
		list:    l,
		search:  ti,
		spinner: s,
		keys:    keys,
		home:    home,
		loading: true,
	}
}

// Init implements View.
func (b *BrowseView) Init() tea.Cmd {
	return b.spinner.Tick
}

// SetLoading toggles the fetch spinner.
func (b *BrowseView) SetLoading(loading bool) tea.Cmd {
	b.loading = loading
	if loading {
		return b.spinner.Tick
	}
	return nil
}

// SetPubs installs a fresh pub set, sorted nearest-first from home.
func (b *BrowseView) SetPubs(pubs []api.Pub, offline bool) {
	b.pubs = sortByDistance(pubs, b.home)
	b.offline = offline
	b.applySearch()
}

// ApplyToggle patches one pub's flag in place so the list reflects a toggle
// without a refetch.
func (b *BrowseView) ApplyToggle(pubID, kind string, value bool) {
	for i := range b.pubs {
		if b.pubs[i].ID != pubID {
			continue
		}
		if kind == "favourite" {
			b.pubs[i].Favourite = value
		} else {
			b.pubs[i].Visited = value
		}
		break
	}
	b.applySearch()
}

// Selected returns the pub under the cursor.
func (b *BrowseView) Selected() (api.Pub, bool) {
	it, ok := b.list.SelectedItem().(pubItem)
	if !ok {
		return api.Pub{}, false
	}
	return it.pub, true
}

// Searching reports whether the search input owns the keyboard.
func (b *BrowseView) Searching() bool { return b.searching }

// Offline reports whether the current list came from the local cache.
func (b *BrowseView) Offline() bool { return b.offline }

// Update implements View.
func (b *BrowseView) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.list.SetWidth(msg.Width)
		b.list.SetHeight(msg.Height - browseChromeRows(b.searching))
		return b, nil

	case spinner.TickMsg:
		if b.loading {
			var cmd tea.Cmd
			b.spinner, cmd = b.spinner.Update(msg)
			return b, cmd
		}
		return b, nil

	case tea.KeyMsg:
		if b.searching {
			switch msg.String() {
			case "esc":
				b.searching = false
				b.search.Blur()
				b.search.SetValue("")
				b.applySearch()
				b.resize()
				return b, nil
			case "enter":
				b.searching = false
				b.search.Blur()
				b.resize()
				return b, b.openSelected()
			case "up", "down":
				var cmd tea.Cmd
				b.list, cmd = b.list.Update(msg)
				return b, cmd
			default:
				var cmd tea.Cmd
				b.search, cmd = b.search.Update(msg)
				b.applySearch()
				return b, cmd
			}
		}
		switch msg.String() {
		case "/":
			b.searching = true
			b.resize()
			cmds = append(cmds, b.search.Focus(), textinput.Blink)
			return b, tea.Batch(cmds...)
		case "enter":
			return b, b.openSelected()
		}
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

// View implements View.
func (b *BrowseView) View() string {
	var sb strings.Builder
	if b.searching {
		sb.WriteString(b.search.View())
		sb.WriteString("\n")
	}
	sb.WriteString(b.list.View())
	if b.loading {
		sb.WriteString("\n")
		sb.WriteString(b.spinner.View())
		sb.WriteString(Styles.Muted.Render("fetching pubs…"))
	} else if b.offline {
		sb.WriteString("\n")
		sb.WriteString(Styles.Details.Render("offline — showing cached pubs"))
	}
	return sb.String()
}

func (b *BrowseView) openSelected() tea.Cmd {
	pub, ok := b.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg { return ShowPubMsg{Pub: pub} }
}

func (b *BrowseView) resize() {
	if b.height > 0 {
		b.list.SetHeight(b.height - browseChromeRows(b.searching))
	}
}

// applySearch rebuilds the visible items from the canonical set and the
// current query.
func (b *BrowseView) applySearch() {
	query := strings.TrimSpace(b.search.Value())
	ranked := rankPubs(b.pubs, query)
	items := make([]list.Item, len(ranked))
	for i, p := range ranked {
		items[i] = pubItem{pub: p, distanceKM: geo.Distance(b.home, geo.Point{Lat: p.Lat, Lon: p.Lon})}
	}
	b.list.SetItems(items)
	if len(items) > 0 && b.list.Index() >= len(items) {
		b.list.Select(0)
	}
}

// browseChromeRows is the space reserved around the list for the search bar
// and the app's status footer.
func browseChromeRows(searching bool) int {
	if searching {
		return 4
	}
	return 3
}

func sortByDistance(pubs []api.Pub, home geo.Point) []api.Pub {
	out := make([]api.Pub, len(pubs))
	copy(out, pubs)
	sort.SliceStable(out, func(i, j int) bool {
		di := geo.Distance(home, geo.Point{Lat: out[i].Lat, Lon: out[i].Lon})
		dj := geo.Distance(home, geo.Point{Lat: out[j].Lat, Lon: out[j].Lon})
		return di < dj
	})
	return out
}

// Search tiers: exact prefix beats substring beats fuzzy. Within a tier the
// original nearest-first order is kept, except fuzzy hits which rank by edit
// distance.
const (
	tierPrefix = iota
	tierSubstring
	tierFuzzy
)

// fuzzyCutoff is the normalized edit distance above which a name is not
// considered a match at all.
const fuzzyCutoff = 0.55

type rankedPub struct {
	pub   api.Pub
	tier  int
	score float64
	order int
}

// rankPubs filters and orders pubs for a query. An empty query returns the
// set unchanged.
func rankPubs(pubs []api.Pub, query string) []api.Pub {
	if query == "" {
		return pubs
	}
	q := strings.ToLower(query)
	var ranked []rankedPub
	for i, p := range pubs {
		name := strings.ToLower(p.Name)
		switch {
		case strings.HasPrefix(name, q):
			ranked = append(ranked, rankedPub{pub: p, tier: tierPrefix, order: i})
		case strings.Contains(name, q):
			ranked = append(ranked, rankedPub{pub: p, tier: tierSubstring, order: i})
		default:
			dist := levenshtein.ComputeDistance(q, name)
			maxLen := len(name)
			if len(q) > maxLen {
				maxLen = len(q)
			}
			if maxLen == 0 {
				continue
			}
			score := float64(dist) / float64(maxLen)
			if score <= fuzzyCutoff {
				ranked = append(ranked, rankedPub{pub: p, tier: tierFuzzy, score: score, order: i})
			}
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].tier != ranked[j].tier {
			return ranked[i].tier < ranked[j].tier
		}
		if ranked[i].tier == tierFuzzy && ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})
	out := make([]api.Pub, len(ranked))
	for i, r := range ranked {
		out[i] = r.pub
	}
	return out
}
