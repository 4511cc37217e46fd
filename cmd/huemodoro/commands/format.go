package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/jmylchreest/huemodoro/pkg/hue"
)

// LightTableData returns the table data for a light, with bold ID and value
func LightTableData(light hue.Light) pterm.TableData {
	return pterm.TableData{
		[]string{pterm.Bold.Sprint("ID"), pterm.Bold.Sprint(strconv.Itoa(light.ID))},
		[]string{"Name", light.Name},
		[]string{"Type", light.Type},
		[]string{"Model", light.ModelID},
		[]string{"Unique ID", light.UniqueID},
		[]string{"On", strconv.FormatBool(light.State.On)},
		[]string{"Reachable", strconv.FormatBool(light.State.Reachable)},
		[]string{"Brightness", strconv.Itoa(int(light.State.Bri))},
		[]string{"Hue/Sat", fmt.Sprintf("%d/%d", light.State.Hue, light.State.Sat)},
	}
}

// LightParseable returns the parseable key=value string for a light
func LightParseable(light hue.Light) string {
	return fmt.Sprintf(
		"id=%d name=%q type=%q modelid=%q uniqueid=%q on=%t reachable=%t bri=%d hue=%d sat=%d",
		light.ID,
		light.Name,
		light.Type,
		light.ModelID,
		light.UniqueID,
		light.State.On,
		light.State.Reachable,
		light.State.Bri,
		light.State.Hue,
		light.State.Sat,
	)
}

// BridgeTableData returns the table data for a discovered bridge
func BridgeTableData(bridge *hue.BridgeInfo, desc *hue.BridgeConfig) pterm.TableData {
	return pterm.TableData{
		[]string{pterm.Bold.Sprint("Address"), pterm.Bold.Sprint(bridge.Address)},
		[]string{"Found via", bridge.Source},
		[]string{"Name", orNA(desc.Name)},
		[]string{"Bridge ID", orNA(firstNonEmpty(desc.BridgeID, bridge.ID))},
		[]string{"Model", orNA(desc.ModelID)},
		[]string{"API version", orNA(desc.APIVersion)},
	}
}

// BridgeParseable returns the parseable key=value string for a bridge
func BridgeParseable(bridge *hue.BridgeInfo, desc *hue.BridgeConfig) string {
	return fmt.Sprintf("address=%q source=%q name=%q bridgeid=%q modelid=%q apiversion=%q",
		bridge.Address,
		bridge.Source,
		desc.Name,
		firstNonEmpty(desc.BridgeID, bridge.ID),
		desc.ModelID,
		desc.APIVersion,
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
