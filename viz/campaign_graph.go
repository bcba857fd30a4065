// ABOUTME: Campaign graph generation for donors
// ABOUTME: Links donors to the campaigns they gave to, colored by giving level
package viz

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

var levelColors = map[string]string{
	models.LevelMajor:      "gold",
	models.LevelMidLevel:   "lightgreen",
	models.LevelGrassroots: "lightblue",
	models.LevelLapsed:     "lightgrey",
	models.LevelProspect:   "white",
}

// GraphGenerator renders DOT graphs over a contact collection.
type GraphGenerator struct {
	contacts []models.Contact
}

func NewGraphGenerator(list []models.Contact) *GraphGenerator {
	return &GraphGenerator{contacts: list}
}

// GenerateCampaignGraph draws every donor with an edge to each campaign they supported,
// labeled with the amount given to it.
func (g *GraphGenerator) GenerateCampaignGraph(ctx context.Context) (string, error) {
	return g.render(ctx, "Donors by Campaign", func(graph *cgraph.Graph) error {
		profiles := donors.Profiles(g.contacts)
		campaigns := make(map[string]*cgraph.Node)

		for i := range profiles {
			p := &profiles[i]
			donorNode, err := createDonorNode(graph, p)
			if err != nil {
				return err
			}

			for _, c := range sortedCampaignTotals(p.DonorInfo.Donations) {
				campaignNode, ok := campaigns[c.name]
				if !ok {
					campaignNode, err = createCampaignNode(graph, c.name)
					if err != nil {
						return err
					}
					campaigns[c.name] = campaignNode
				}

				edge, err := graph.CreateEdgeByName(fmt.Sprintf("gave_%s_%s", p.ID, c.name), donorNode, campaignNode)
				if err != nil {
					return fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetLabel(formatAmount(c.amount))
			}
		}
		return nil
	})
}

func (g *GraphGenerator) render(ctx context.Context, label string, build func(*cgraph.Graph) error) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(label)
	graph.SetRankDir(cgraph.LRRank)

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

func createDonorNode(graph *cgraph.Graph, c *models.Contact) (*cgraph.Node, error) {
	node, err := graph.CreateNodeByName("donor_" + c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create donor node: %w", err)
	}

	level := models.LevelProspect
	if c.DonorInfo != nil && c.DonorInfo.GivingLevel != "" {
		level = c.DonorInfo.GivingLevel
	}
	color, ok := levelColors[level]
	if !ok {
		color = "white"
	}

	node.SetLabel(fmt.Sprintf("%s\n(%s)", c.FullName(), level))
	node.SetShape("ellipse")
	node.SetStyle("filled")
	node.SetFillColor(color)
	return node, nil
}

func createCampaignNode(graph *cgraph.Graph, name string) (*cgraph.Node, error) {
	node, err := graph.CreateNodeByName("campaign_" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign node: %w", err)
	}
	node.SetLabel(name)
	node.SetShape("box")
	node.SetStyle("filled")
	node.SetFillColor("lightyellow")
	return node, nil
}

type campaignTotal struct {
	name   string
	amount float64
}

func sortedCampaignTotals(donations []models.Donation) []campaignTotal {
	totals := make(map[string]float64)
	for _, d := range donations {
		name := d.Campaign
		if name == "" {
			name = donors.NoCampaign
		}
		totals[name] += d.Amount
	}

	out := make([]campaignTotal, 0, len(totals))
	for name, amount := range totals {
		out = append(out, campaignTotal{name: name, amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func formatAmount(amount float64) string {
	if amount >= 1000 {
		return fmt.Sprintf("$%.1fK", amount/1000)
	}
	return fmt.Sprintf("$%.0f", amount)
}
