package smc_test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/onur1/smc"
)

func ExampleDecoder() {
	var buf bytes.Buffer

	w := smc.NewWriter(bufio.NewWriter(&buf))
	if err := w.WriteMessage(
		smc.NewMessage(42, 3, []byte("hi")),
		smc.NewMessage(112, 5, []byte("hey")),
	); err != nil {
		log.Fatal(err)
	}

	d := smc.NewDecoder(&buf)
	for {
		msg, err := d.ReadMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d %d %s\n", msg.Channel, msg.Type, msg.Payload)
	}

	// Output:
	// 42 3 hi
	// 112 5 hey
}

func ExampleDial() {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatal(err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		c := smc.NewConn(conn)
		msg, err := c.ReadMessage()
		if err != nil {
			return
		}
		c.Send(smc.NewMessage(msg.Channel, 5, []byte("hey")))
	}()

	c, err := smc.Dial("tcp", ln.Addr().String())
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Send(smc.NewMessage(42, 3, []byte("hi"))); err != nil {
		log.Fatal(err)
	}

	reply, err := c.ReadMessage()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d %d %s\n", reply.Channel, reply.Type, reply.Payload)

	// Output:
	// 42 5 hey
}
