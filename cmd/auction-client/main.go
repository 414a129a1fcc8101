// The auction client connects to the auctioneer and bridges the terminal
// to the line protocol: server messages go to stdout, stdin lines go to
// the server. The first client to connect acts as the seller; later
// clients act as buyers.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <host> <port>\n", os.Args[0])
		os.Exit(1)
	}

	host := os.Args[1]
	port, err := strconv.Atoi(os.Args[2])
	if err != nil || port < 1 || port > 65535 {
		fmt.Fprintf(os.Stderr, "Invalid port %q\n", os.Args[2])
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", net.JoinHostPort(host, os.Args[2]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to auctioneer: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to the Auctioneer server at %s\n", conn.RemoteAddr())

	// Server messages to stdout. Each Read returns one logical message;
	// the connection closing means the auction is over for this client.
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 1024)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			fmt.Printf("%s\n", buf[:n])
		}
	}()

	// Stdin lines to the server. The process exits when the server closes
	// the connection, whether or not stdin has more to say.
	go func() {
		input := bufio.NewScanner(os.Stdin)
		for input.Scan() {
			if _, err := conn.Write([]byte(input.Text())); err != nil {
				return
			}
		}
	}()

	<-done
	fmt.Println("Disconnected from the Auctioneer server.")
}
