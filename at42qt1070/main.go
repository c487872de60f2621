package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cgxeiji/at42qt1070"
	"github.com/cgxeiji/at42qt1070/regmap"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

func main() {
	bus := flag.String("bus", "", "I2C bus name (default: first available)")
	irq := flag.String("irq", "", "GPIO pin wired to the CHANGE line (default: poll on a ticker)")
	flag.Parse()

	sensor, err := at42qt1070.New(at42qt1070.OnBus(*bus))
	if err != nil {
		log.Fatal(err)
	}
	defer sensor.Close()

	if err := sensor.Probe(); err != nil {
		log.Fatal(err)
	}
	if err := sensor.SyncAll(); err != nil {
		log.Fatal(err)
	}

	major, minor := sensor.CachedChipID()
	fmt.Printf("AT42QT1070 %x.%x fw 0x%02x detected\n", major, minor, sensor.CachedFirmwareVersion())

	// A lower threshold makes the keys more sensitive.
	for k := regmap.Key0; k < regmap.KeyCount; k++ {
		if err := sensor.SetNegativeThreshold(k, 0x0A); err != nil {
			log.Fatal(err)
		}
	}

	if err := sensor.StartCalibration(); err != nil {
		log.Fatal(err)
	}
	if err := sensor.WaitUntilCalibrated(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("calibrated")

	if *irq != "" {
		watchIRQ(sensor, *irq)
		return
	}

	t := time.NewTicker(100 * time.Millisecond)
	for {
		keys, err := sensor.AllKeyStatus()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\rkeys = %v ", keys)
		<-t.C
	}
}

// watchIRQ blocks on the CHANGE line instead of polling. The chip pulls the
// line low whenever a monitored register changes and releases it once any
// register is read, so every edge is followed by a status sync.
func watchIRQ(sensor *at42qt1070.Device, pin string) {
	p := gpioreg.ByName(pin)
	if p == nil {
		log.Fatalf("no GPIO pin named %q", pin)
	}
	if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		log.Fatal(err)
	}

	for {
		p.WaitForEdge(-1)
		keys, err := sensor.AllKeyStatus()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("keys = %v\n", keys)
	}
}
